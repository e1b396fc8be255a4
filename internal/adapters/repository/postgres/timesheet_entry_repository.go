package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/timesheet"
	pgdb "github.com/ogurasousui/timesheet-engine/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

var entryColumns = []string{
	"id",
	"employee_id",
	"work_date",
	"pay_period_id",
	"hours_worked::text",
	"status",
	"manager_feedback",
	"submission_count",
	"reviewer_id",
	"reviewed_at",
	"created_at",
	"updated_at",
}

const entryReturning = `id, employee_id, work_date, pay_period_id, hours_worked::text, status,
                  manager_feedback, submission_count, reviewer_id, reviewed_at, created_at, updated_at`

var entryErrors = constraintMapping{
	noRows: timesheet.ErrEntryNotFound,
	check:  timesheet.ErrImplausibleInterval,
	constraints: map[string]error{
		"timesheet_entries_employee_id_fkey":   employee.ErrEmployeeNotFound,
		"timesheet_entries_reviewer_id_fkey":   employee.ErrEmployeeNotFound,
		"timesheet_entries_pay_period_id_fkey": payperiod.ErrPeriodNotFound,
	},
}

// TimesheetEntryRepository は日次エントリの PostgreSQL 実装です。
type TimesheetEntryRepository struct {
	pool pgdb.Queryer
}

// NewTimesheetEntryRepository は TimesheetEntryRepository を生成します。
func NewTimesheetEntryRepository(pool pgdb.Queryer) *TimesheetEntryRepository {
	return &TimesheetEntryRepository{pool: pool}
}

// AddHours は (社員, 勤務日, 期間) のエントリに hours を加算し、なければ draft で作成します。
func (r *TimesheetEntryRepository) AddHours(ctx context.Context, key timesheet.EntryKey, hours decimal.Decimal, now time.Time) (*timesheet.Entry, error) {
	return r.upsertHours(ctx, key, hours, now, "timesheet_entries.hours_worked + EXCLUDED.hours_worked")
}

// SetHours はエントリの勤務時間を置き換えます。状態は変更しません。
func (r *TimesheetEntryRepository) SetHours(ctx context.Context, key timesheet.EntryKey, hours decimal.Decimal, now time.Time) (*timesheet.Entry, error) {
	return r.upsertHours(ctx, key, hours, now, "EXCLUDED.hours_worked")
}

func (r *TimesheetEntryRepository) upsertHours(ctx context.Context, key timesheet.EntryKey, hours decimal.Decimal, now time.Time, assignment string) (*timesheet.Entry, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO timesheet_entries (employee_id, work_date, pay_period_id, hours_worked, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4::numeric, $5, $6, $6)
        ON CONFLICT (employee_id, work_date, pay_period_id)
        DO UPDATE SET hours_worked = `+assignment+`,
                      updated_at = EXCLUDED.updated_at
        RETURNING `+entryReturning,
		key.EmployeeID,
		dateValue(key.WorkDate),
		key.PayPeriodID,
		hours.String(),
		string(timesheet.EntryDraft),
		now,
	)

	entry, err := scanEntry(row)
	if err != nil {
		return nil, entryErrors.translate(err)
	}
	return entry, nil
}

// List は条件に一致するエントリを勤務日・社員 ID 順に返します。
func (r *TimesheetEntryRepository) List(ctx context.Context, filter timesheet.EntryFilter) ([]*timesheet.Entry, error) {
	query := psql.Select(entryColumns...).From("timesheet_entries")
	if filter.EmployeeID != "" {
		query = query.Where(squirrel.Eq{"employee_id": filter.EmployeeID})
	}
	if filter.PayPeriodID != "" {
		query = query.Where(squirrel.Eq{"pay_period_id": filter.PayPeriodID})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"work_date": dateValue(*filter.From)})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"work_date": dateValue(*filter.To)})
	}
	query = query.OrderBy("work_date ASC", "employee_id ASC")

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build entry query: %w", err)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, entryErrors.translate(err)
	}
	return collectEntries(rows)
}

// SubmitPeriod は draft / denied のエントリを submitted にします。
func (r *TimesheetEntryRepository) SubmitPeriod(ctx context.Context, employeeID, payPeriodID string, now time.Time) (int, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE timesheet_entries
           SET status = $1,
               submission_count = submission_count + 1,
               updated_at = $2
         WHERE employee_id = $3
           AND pay_period_id = $4
           AND status IN ($5, $6)
    `,
		string(timesheet.EntrySubmitted),
		now,
		employeeID,
		payPeriodID,
		string(timesheet.EntryDraft),
		string(timesheet.EntryDenied),
	)
	if err != nil {
		return 0, entryErrors.translate(err)
	}
	return int(tag.RowsAffected()), nil
}

// ReviewSubmitted は submitted のエントリだけをレビュー結果で更新し、勤務日順に返します。
func (r *TimesheetEntryRepository) ReviewSubmitted(ctx context.Context, update timesheet.ReviewUpdate) ([]*timesheet.Entry, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        WITH reviewed AS (
            UPDATE timesheet_entries
               SET status = $1,
                   reviewer_id = $2,
                   manager_feedback = $3,
                   reviewed_at = $4,
                   updated_at = $4
             WHERE employee_id = $5
               AND pay_period_id = $6
               AND status = $7
            RETURNING `+entryReturning+`
        )
        SELECT * FROM reviewed
         ORDER BY work_date ASC
    `,
		string(update.Status),
		nullableString(update.ReviewerID),
		update.Feedback,
		update.ReviewedAt,
		update.EmployeeID,
		update.PayPeriodID,
		string(timesheet.EntrySubmitted),
	)
	if err != nil {
		return nil, entryErrors.translate(err)
	}
	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]*timesheet.Entry, error) {
	defer rows.Close()

	entries := make([]*timesheet.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, entryErrors.translate(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, entryErrors.translate(err)
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (*timesheet.Entry, error) {
	var (
		id              string
		employeeID      string
		workDate        time.Time
		payPeriodID     string
		hoursText       string
		status          string
		feedback        sql.NullString
		submissionCount int
		reviewerID      sql.NullString
		reviewedAt      sql.NullTime
		createdAt       time.Time
		updatedAt       time.Time
	)
	if err := row.Scan(
		&id,
		&employeeID,
		&workDate,
		&payPeriodID,
		&hoursText,
		&status,
		&feedback,
		&submissionCount,
		&reviewerID,
		&reviewedAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	hours, err := decimal.NewFromString(hoursText)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse hours_worked %q: %w", hoursText, err)
	}

	entry := &timesheet.Entry{
		ID:              id,
		EmployeeID:      employeeID,
		WorkDate:        dateFromColumn(workDate),
		PayPeriodID:     payPeriodID,
		HoursWorked:     hours,
		Status:          timesheet.EntryStatus(status),
		SubmissionCount: submissionCount,
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       updatedAt.UTC(),
	}
	if feedback.Valid {
		value := feedback.String
		entry.ManagerFeedback = &value
	}
	if reviewerID.Valid {
		value := reviewerID.String
		entry.ReviewerID = &value
	}
	if reviewedAt.Valid {
		value := reviewedAt.Time.UTC()
		entry.ReviewedAt = &value
	}
	return entry, nil
}

package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/timesheet"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	pgdb "github.com/ogurasousui/timesheet-engine/internal/platform/db/postgres"
)

const weeklyStatusColumns = `employee_id, week_start_date, status, updated_at`

var weeklyStatusErrors = constraintMapping{
	noRows:     timesheet.ErrWeeklyStatusNotFound,
	foreignKey: employee.ErrEmployeeNotFound,
}

// WeeklyStatusRepository は週次状態の PostgreSQL 実装です。
type WeeklyStatusRepository struct {
	pool pgdb.Queryer
}

// NewWeeklyStatusRepository は WeeklyStatusRepository を生成します。
func NewWeeklyStatusRepository(pool pgdb.Queryer) *WeeklyStatusRepository {
	return &WeeklyStatusRepository{pool: pool}
}

// Upsert は (社員, 週開始日) の状態を作成または上書きします。
func (r *WeeklyStatusRepository) Upsert(ctx context.Context, s *timesheet.WeeklyTimesheetStatus) (*timesheet.WeeklyTimesheetStatus, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO weekly_timesheet_statuses (employee_id, week_start_date, status, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (employee_id, week_start_date)
        DO UPDATE SET status = EXCLUDED.status,
                      updated_at = EXCLUDED.updated_at
        RETURNING `+weeklyStatusColumns,
		s.EmployeeID,
		dateValue(s.WeekStartDate),
		string(s.Status),
		s.UpdatedAt,
	)

	saved, err := scanWeeklyStatus(row)
	if err != nil {
		return nil, weeklyStatusErrors.translate(err)
	}
	return saved, nil
}

// Find は (社員, 週開始日) の状態を返します。
func (r *WeeklyStatusRepository) Find(ctx context.Context, employeeID string, weekStart workcal.Date) (*timesheet.WeeklyTimesheetStatus, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+weeklyStatusColumns+`
          FROM weekly_timesheet_statuses
         WHERE employee_id = $1
           AND week_start_date = $2
    `, employeeID, dateValue(weekStart))

	found, err := scanWeeklyStatus(row)
	if err != nil {
		return nil, weeklyStatusErrors.translate(err)
	}
	return found, nil
}

// ListByWeek は週開始日が一致する全社員の状態を返します。
func (r *WeeklyStatusRepository) ListByWeek(ctx context.Context, weekStart workcal.Date) ([]*timesheet.WeeklyTimesheetStatus, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+weeklyStatusColumns+`
          FROM weekly_timesheet_statuses
         WHERE week_start_date = $1
         ORDER BY employee_id ASC
    `, dateValue(weekStart))
	if err != nil {
		return nil, weeklyStatusErrors.translate(err)
	}
	defer rows.Close()

	statuses := make([]*timesheet.WeeklyTimesheetStatus, 0)
	for rows.Next() {
		status, err := scanWeeklyStatus(rows)
		if err != nil {
			return nil, weeklyStatusErrors.translate(err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, weeklyStatusErrors.translate(err)
	}
	return statuses, nil
}

func scanWeeklyStatus(row pgx.Row) (*timesheet.WeeklyTimesheetStatus, error) {
	var (
		employeeID string
		weekStart  time.Time
		status     string
		updatedAt  time.Time
	)
	if err := row.Scan(&employeeID, &weekStart, &status, &updatedAt); err != nil {
		return nil, err
	}
	return &timesheet.WeeklyTimesheetStatus{
		EmployeeID:    employeeID,
		WeekStartDate: dateFromColumn(weekStart),
		Status:        timesheet.WeeklyStatus(status),
		UpdatedAt:     updatedAt.UTC(),
	}, nil
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	pgdb "github.com/ogurasousui/timesheet-engine/internal/platform/db/postgres"
)

const payPeriodColumns = `id, start_date, end_date, status, payment_date, created_at, updated_at`

var payPeriodErrors = constraintMapping{
	noRows: payperiod.ErrPeriodNotFound,
	check:  payperiod.ErrInvalidPaymentDate,
}

// PayPeriodRepository は支払期間の PostgreSQL 実装です。
type PayPeriodRepository struct {
	pool pgdb.Queryer
}

// NewPayPeriodRepository は PayPeriodRepository を生成します。
func NewPayPeriodRepository(pool pgdb.Queryer) *PayPeriodRepository {
	return &PayPeriodRepository{pool: pool}
}

// Ensure は window の期間を返し、なければ作成します。
// 一意制約への upsert なので同時に呼ばれても 1 行に収束します。
func (r *PayPeriodRepository) Ensure(ctx context.Context, window workcal.Window, now time.Time) (*payperiod.PayPeriod, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO pay_periods (start_date, end_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $4)
        ON CONFLICT (start_date, end_date)
        DO UPDATE SET status = pay_periods.status
        RETURNING `+payPeriodColumns,
		dateValue(window.Start),
		dateValue(window.End),
		string(payperiod.StatusActive),
		now,
	)

	period, err := scanPayPeriod(row)
	if err != nil {
		return nil, payPeriodErrors.translate(err)
	}
	return period, nil
}

// FindByID は ID で期間を取得します。
func (r *PayPeriodRepository) FindByID(ctx context.Context, id string) (*payperiod.PayPeriod, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+payPeriodColumns+`
          FROM pay_periods
         WHERE id = $1
    `, id)

	period, err := scanPayPeriod(row)
	if err != nil {
		return nil, payPeriodErrors.translate(err)
	}
	return period, nil
}

// Update は状態と支払日を更新します。
func (r *PayPeriodRepository) Update(ctx context.Context, p *payperiod.PayPeriod) (*payperiod.PayPeriod, error) {
	var paymentDate any
	if p.PaymentDate != nil {
		paymentDate = dateValue(*p.PaymentDate)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE pay_periods
           SET status = $1,
               payment_date = $2,
               updated_at = $3
         WHERE id = $4
        RETURNING `+payPeriodColumns,
		string(p.Status),
		paymentDate,
		p.UpdatedAt,
		p.ID,
	)

	period, err := scanPayPeriod(row)
	if err != nil {
		return nil, payPeriodErrors.translate(err)
	}
	return period, nil
}

// List は開始日の新しい順に期間を返します。
func (r *PayPeriodRepository) List(ctx context.Context, limit int) ([]*payperiod.PayPeriod, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+payPeriodColumns+`
          FROM pay_periods
         ORDER BY start_date DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, payPeriodErrors.translate(err)
	}
	defer rows.Close()

	periods := make([]*payperiod.PayPeriod, 0, limit)
	for rows.Next() {
		period, err := scanPayPeriod(rows)
		if err != nil {
			return nil, payPeriodErrors.translate(err)
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, payPeriodErrors.translate(err)
	}
	return periods, nil
}

func scanPayPeriod(row pgx.Row) (*payperiod.PayPeriod, error) {
	var (
		id          string
		startDate   time.Time
		endDate     time.Time
		status      string
		paymentDate sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &startDate, &endDate, &status, &paymentDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	period := &payperiod.PayPeriod{
		ID:        id,
		StartDate: dateFromColumn(startDate),
		EndDate:   dateFromColumn(endDate),
		Status:    payperiod.Status(status),
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}
	if paymentDate.Valid {
		d := dateFromColumn(paymentDate.Time)
		period.PaymentDate = &d
	}
	return period, nil
}

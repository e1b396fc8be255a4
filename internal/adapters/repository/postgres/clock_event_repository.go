package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/timesheet-engine/internal/core/clock"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	pgdb "github.com/ogurasousui/timesheet-engine/internal/platform/db/postgres"
)

const clockEventColumns = `id, employee_id, event_type, occurred_at`

var clockEventErrors = constraintMapping{
	noRows:     clock.ErrEventNotFound,
	unique:     clock.ErrOutOfOrder,
	foreignKey: employee.ErrEmployeeNotFound,
	check:      clock.ErrInvalidEventType,
}

// ClockEventRepository は打刻ログの PostgreSQL 実装です。行は追記のみです。
type ClockEventRepository struct {
	pool pgdb.Queryer
}

// NewClockEventRepository は ClockEventRepository を生成します。
func NewClockEventRepository(pool pgdb.Queryer) *ClockEventRepository {
	return &ClockEventRepository{pool: pool}
}

// Append は打刻を追記します。
func (r *ClockEventRepository) Append(ctx context.Context, e *clock.Event) (*clock.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO clock_events (employee_id, event_type, occurred_at)
        VALUES ($1, $2, $3)
        RETURNING `+clockEventColumns,
		e.EmployeeID,
		string(e.Type),
		e.OccurredAt,
	)

	created, err := scanClockEvent(row)
	if err != nil {
		return nil, clockEventErrors.translate(err)
	}
	return created, nil
}

// Latest は社員の最新の打刻を返します。
func (r *ClockEventRepository) Latest(ctx context.Context, employeeID string) (*clock.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+clockEventColumns+`
          FROM clock_events
         WHERE employee_id = $1
         ORDER BY occurred_at DESC, id DESC
         LIMIT 1
    `, employeeID)

	found, err := scanClockEvent(row)
	if err != nil {
		return nil, clockEventErrors.translate(err)
	}
	return found, nil
}

// Recent は新しい順に最大 limit 件の打刻を返します。
func (r *ClockEventRepository) Recent(ctx context.Context, employeeID string, limit int) ([]*clock.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+clockEventColumns+`
          FROM clock_events
         WHERE employee_id = $1
         ORDER BY occurred_at DESC, id DESC
         LIMIT $2
    `, employeeID, limit)
	if err != nil {
		return nil, clockEventErrors.translate(err)
	}
	return collectClockEvents(rows)
}

// ListBetween は [from, to) の打刻を古い順に返します。
func (r *ClockEventRepository) ListBetween(ctx context.Context, employeeID string, from, to time.Time) ([]*clock.Event, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+clockEventColumns+`
          FROM clock_events
         WHERE employee_id = $1
           AND occurred_at >= $2
           AND occurred_at < $3
         ORDER BY occurred_at ASC, id ASC
    `, employeeID, from, to)
	if err != nil {
		return nil, clockEventErrors.translate(err)
	}
	return collectClockEvents(rows)
}

func collectClockEvents(rows pgx.Rows) ([]*clock.Event, error) {
	defer rows.Close()

	events := make([]*clock.Event, 0)
	for rows.Next() {
		event, err := scanClockEvent(rows)
		if err != nil {
			return nil, clockEventErrors.translate(err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, clockEventErrors.translate(err)
	}
	return events, nil
}

func scanClockEvent(row pgx.Row) (*clock.Event, error) {
	var (
		id         string
		employeeID string
		eventType  string
		occurredAt time.Time
	)
	if err := row.Scan(&id, &employeeID, &eventType, &occurredAt); err != nil {
		return nil, err
	}
	return &clock.Event{
		ID:         id,
		EmployeeID: employeeID,
		Type:       clock.EventType(eventType),
		OccurredAt: occurredAt.UTC(),
	}, nil
}

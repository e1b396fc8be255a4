package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/timesheet"
	pgdb "github.com/ogurasousui/timesheet-engine/internal/platform/db/postgres"
)

const notificationColumns = `id, employee_id, timesheet_entry_id, notification_type, message, is_read, created_at`

var notificationErrors = constraintMapping{
	constraints: map[string]error{
		"notifications_employee_id_fkey":        employee.ErrEmployeeNotFound,
		"notifications_timesheet_entry_id_fkey": timesheet.ErrEntryNotFound,
	},
}

// NotificationRepository は通知記録の PostgreSQL 実装です。
type NotificationRepository struct {
	pool pgdb.Queryer
}

// NewNotificationRepository は NotificationRepository を生成します。
func NewNotificationRepository(pool pgdb.Queryer) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create は通知を記録します。
func (r *NotificationRepository) Create(ctx context.Context, n *timesheet.Notification) (*timesheet.Notification, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO notifications (employee_id, timesheet_entry_id, notification_type, message, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+notificationColumns,
		n.EmployeeID,
		n.TimesheetEntryID,
		string(n.Type),
		n.Message,
		n.Read,
		n.CreatedAt,
	)

	created, err := scanNotification(row)
	if err != nil {
		return nil, notificationErrors.translate(err)
	}
	return created, nil
}

// ExistsForEntry はエントリに指定種別の通知があるかを返します。
func (r *NotificationRepository) ExistsForEntry(ctx context.Context, entryID string, typ timesheet.NotificationType) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var exists bool
	if err := exec.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1
              FROM notifications
             WHERE timesheet_entry_id = $1
               AND notification_type = $2
        )
    `, entryID, string(typ)).Scan(&exists); err != nil {
		return false, notificationErrors.translate(err)
	}
	return exists, nil
}

// ListByEmployee は社員の通知を新しい順に返します。
func (r *NotificationRepository) ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool, limit int) ([]*timesheet.Notification, error) {
	query := psql.Select(notificationColumns).
		From("notifications").
		Where(squirrel.Eq{"employee_id": employeeID})
	if unreadOnly {
		query = query.Where(squirrel.Eq{"is_read": false})
	}
	query = query.OrderBy("created_at DESC", "id DESC").Limit(uint64(limit))

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build notification query: %w", err)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, notificationErrors.translate(err)
	}
	defer rows.Close()

	notifications := make([]*timesheet.Notification, 0, limit)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, notificationErrors.translate(err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, notificationErrors.translate(err)
	}
	return notifications, nil
}

func scanNotification(row pgx.Row) (*timesheet.Notification, error) {
	var (
		id        string
		empID     string
		entryID   string
		typ       string
		message   string
		read      bool
		createdAt time.Time
	)
	if err := row.Scan(&id, &empID, &entryID, &typ, &message, &read, &createdAt); err != nil {
		return nil, err
	}
	return &timesheet.Notification{
		ID:               id,
		EmployeeID:       empID,
		TimesheetEntryID: entryID,
		Type:             timesheet.NotificationType(typ),
		Message:          message,
		Read:             read,
		CreatedAt:        createdAt.UTC(),
	}, nil
}

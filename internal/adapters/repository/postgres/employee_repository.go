package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	pgdb "github.com/ogurasousui/timesheet-engine/internal/platform/db/postgres"
)

const employeeColumns = `id, is_active, fired_at, created_at, updated_at`

var employeeErrors = constraintMapping{noRows: employee.ErrEmployeeNotFound}

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, employeeErrors.translate(err)
	}
	return found, nil
}

// LockByID は社員行を FOR UPDATE で取得します。トランザクション内で呼び出してください。
func (r *EmployeeRepository) LockByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
           FOR UPDATE
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, employeeErrors.translate(err)
	}
	return found, nil
}

// Update は在籍状態を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET is_active = $1,
               fired_at = $2,
               updated_at = $3
         WHERE id = $4
        RETURNING `+employeeColumns,
		e.IsActive,
		e.FiredAt,
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, employeeErrors.translate(err)
	}
	return updated, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id        string
		isActive  bool
		firedAt   sql.NullTime
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &isActive, &firedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var firedPtr *time.Time
	if firedAt.Valid {
		t := firedAt.Time.UTC()
		firedPtr = &t
	}

	return &employee.Employee{
		ID:        id,
		IsActive:  isActive,
		FiredAt:   firedPtr,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}

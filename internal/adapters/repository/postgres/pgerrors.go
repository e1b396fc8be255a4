package postgres

import (
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// psql は PostgreSQL 用のプレースホルダを使うクエリビルダです。
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// constraintMapping は制約違反コードごとのドメインエラーです。
// constraints は制約名ごとの対応で、コード単位の対応より優先されます。
type constraintMapping struct {
	noRows      error
	unique      error
	foreignKey  error
	check       error
	constraints map[string]error
}

// translate は pgx のエラーをドメインエラーに変換します。対応がないものは永続化エラーです。
func (m constraintMapping) translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) && m.noRows != nil {
		return m.noRows
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := m.constraints[pgErr.ConstraintName]; ok {
			return mapped
		}

		var mapped error
		switch pgErr.Code {
		case uniqueViolationCode:
			mapped = m.unique
		case foreignKeyViolationCode:
			mapped = m.foreignKey
		case checkViolationCode:
			mapped = m.check
		}
		if mapped != nil {
			return mapped
		}
	}

	return apperr.Persistence(err)
}

func dateValue(d workcal.Date) time.Time {
	return d.Time()
}

func dateFromColumn(t time.Time) workcal.Date {
	return workcal.NewDate(t.Year(), t.Month(), t.Day())
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

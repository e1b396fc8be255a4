package employee

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は社員ライフサイクルの公開インターフェースです。
type UseCase interface {
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	FireEmployee(ctx context.Context, actor apperr.Actor, id string) (*Employee, error)
	ReinstateEmployee(ctx context.Context, actor apperr.Actor, id string) (*Employee, error)
}

// Service は解雇・復職のユースケースをまとめます。
// 既存の勤怠記録は一切変更しません。
type Service struct {
	repo   Repository
	clock  Clock
	tx     TransactionManager
	logger *slog.Logger
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager, logger *slog.Logger) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, clock: clock, tx: tx, logger: logger}
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	normalized, err := NormalizeID(id)
	if err != nil {
		return nil, err
	}

	var found *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.FindByID(txCtx, normalized)
		if err != nil {
			return err
		}
		found = emp
		return nil
	}); err != nil {
		return nil, err
	}
	return found, nil
}

// FireEmployee は社員を解雇状態にし、以後の打刻を禁止します。
func (s *Service) FireEmployee(ctx context.Context, actor apperr.Actor, id string) (*Employee, error) {
	return s.transition(ctx, actor, id, func(emp *Employee, now time.Time) error {
		if !emp.IsActive {
			return ErrAlreadyFired
		}
		emp.IsActive = false
		emp.FiredAt = &now
		return nil
	})
}

// ReinstateEmployee は解雇を取り消します。
func (s *Service) ReinstateEmployee(ctx context.Context, actor apperr.Actor, id string) (*Employee, error) {
	return s.transition(ctx, actor, id, func(emp *Employee, _ time.Time) error {
		if emp.IsActive {
			return ErrAlreadyActive
		}
		emp.IsActive = true
		emp.FiredAt = nil
		return nil
	})
}

func (s *Service) transition(ctx context.Context, actor apperr.Actor, id string, apply func(*Employee, time.Time) error) (*Employee, error) {
	if err := actor.RequireManager(); err != nil {
		return nil, err
	}

	normalized, err := NormalizeID(id)
	if err != nil {
		return nil, err
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.LockByID(txCtx, normalized)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if err := apply(emp, now); err != nil {
			return err
		}
		emp.UpdatedAt = now

		result, err := s.repo.Update(txCtx, emp)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "employee lifecycle changed",
		slog.String("employee_id", updated.ID),
		slog.Bool("active", updated.IsActive),
		slog.String("reviewer_id", actor.EmployeeID),
	)
	return updated, nil
}

// NormalizeID は社員 ID を検証し、正規化した文字列を返します。
func NormalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidID
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return "", ErrInvalidID
	}
	return id.String(), nil
}

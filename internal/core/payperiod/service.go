package payperiod

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
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

const (
	defaultListPageSize = 20
	maxListPageSize     = 200
)

// UseCase は支払期間ユースケースの公開インターフェースです。
type UseCase interface {
	GetOrCreateCurrent(ctx context.Context) (*PayPeriod, error)
	GetByID(ctx context.Context, id string) (*PayPeriod, error)
	List(ctx context.Context, limit int) ([]*PayPeriod, error)
	Close(ctx context.Context, actor apperr.Actor, id string) (*PayPeriod, error)
	MarkPaid(ctx context.Context, actor apperr.Actor, id string, paymentDate workcal.Date) (*PayPeriod, error)
}

// Service は支払期間のライフサイクルを管理します。
type Service struct {
	repo     Repository
	calendar workcal.Calendar
	clock    Clock
	tx       TransactionManager
	logger   *slog.Logger
}

// NewService は Service を生成します。
func NewService(repo Repository, calendar workcal.Calendar, clock Clock, tx TransactionManager, logger *slog.Logger) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, calendar: calendar, clock: clock, tx: tx, logger: logger}
}

// Calendar は期間計算に使う暦を返します。
func (s *Service) Calendar() workcal.Calendar {
	return s.calendar
}

// GetOrCreateCurrent は現在時刻を含む期間を返し、初回であれば作成します。
func (s *Service) GetOrCreateCurrent(ctx context.Context) (*PayPeriod, error) {
	now := s.clock.Now()
	window := s.calendar.WeekContaining(now)

	var period *PayPeriod
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		found, err := s.repo.Ensure(txCtx, window, now)
		if err != nil {
			return err
		}
		period = found
		return nil
	}); err != nil {
		return nil, err
	}

	return period, nil
}

// GetByID は ID で期間を取得します。
func (s *Service) GetByID(ctx context.Context, id string) (*PayPeriod, error) {
	normalized, err := NormalizeID(id)
	if err != nil {
		return nil, err
	}

	var period *PayPeriod
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, normalized)
		if err != nil {
			return err
		}
		period = found
		return nil
	}); err != nil {
		return nil, err
	}

	return period, nil
}

// List は新しい順に期間を返します。
func (s *Service) List(ctx context.Context, limit int) ([]*PayPeriod, error) {
	if limit <= 0 {
		limit = defaultListPageSize
	}
	if limit > maxListPageSize {
		return nil, ErrInvalidPageSize
	}

	var periods []*PayPeriod
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx, limit)
		if err != nil {
			return err
		}
		periods = found
		return nil
	}); err != nil {
		return nil, err
	}

	return periods, nil
}

// Close は active な期間を締めます。
func (s *Service) Close(ctx context.Context, actor apperr.Actor, id string) (*PayPeriod, error) {
	return s.transition(ctx, actor, id, func(p *PayPeriod) error {
		if p.Status != StatusActive {
			return ErrInvalidTransition
		}
		p.Status = StatusClosed
		return nil
	})
}

// MarkPaid は締め済みの期間を支払済みにします。
func (s *Service) MarkPaid(ctx context.Context, actor apperr.Actor, id string, paymentDate workcal.Date) (*PayPeriod, error) {
	if paymentDate.IsZero() {
		return nil, ErrInvalidPaymentDate
	}

	return s.transition(ctx, actor, id, func(p *PayPeriod) error {
		if p.Status != StatusClosed {
			return ErrInvalidTransition
		}
		if paymentDate.Before(p.EndDate) {
			return ErrInvalidPaymentDate
		}
		p.Status = StatusPaid
		date := paymentDate
		p.PaymentDate = &date
		return nil
	})
}

func (s *Service) transition(ctx context.Context, actor apperr.Actor, id string, apply func(*PayPeriod) error) (*PayPeriod, error) {
	if err := actor.RequireManager(); err != nil {
		return nil, err
	}

	normalized, err := NormalizeID(id)
	if err != nil {
		return nil, err
	}

	var updated *PayPeriod
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		period, err := s.repo.FindByID(txCtx, normalized)
		if err != nil {
			return err
		}
		if err := apply(period); err != nil {
			return err
		}
		period.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, period)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "pay period status changed",
		slog.String("pay_period_id", updated.ID),
		slog.String("status", string(updated.Status)),
	)
	return updated, nil
}

// NormalizeID は期間 ID を検証します。
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

package clock

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
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

const defaultRecentEvents = 10

// UseCase は打刻ユースケースの公開インターフェースです。
type UseCase interface {
	ClockIn(ctx context.Context, employeeID string) (*Event, error)
	ClockOut(ctx context.Context, employeeID string) (*Interval, error)
	GetStatus(ctx context.Context, employeeID string) (*Status, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithRecentEvents は GetStatus が返す直近イベント数を設定します。
func WithRecentEvents(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentEvents = n
		}
	}
}

// Service は出退勤の打刻を扱います。
type Service struct {
	events       EventRepository
	employees    EmployeeLocker
	accruer      Accruer
	clock        Clock
	tx           TransactionManager
	logger       *slog.Logger
	recentEvents int
}

// NewService は Service を生成します。
func NewService(events EventRepository, employees EmployeeLocker, accruer Accruer, clock Clock, tx TransactionManager, logger *slog.Logger, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		events:       events,
		employees:    employees,
		accruer:      accruer,
		clock:        clock,
		tx:           tx,
		logger:       logger,
		recentEvents: defaultRecentEvents,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClockIn は出勤を記録します。未退勤の IN が残っている場合は失敗します。
func (s *Service) ClockIn(ctx context.Context, employeeID string) (*Event, error) {
	id, err := employee.NormalizeID(employeeID)
	if err != nil {
		return nil, err
	}

	var created *Event
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		last, err := s.lockAndLatest(txCtx, id)
		if err != nil {
			return err
		}
		if last != nil && last.Type == EventIn {
			return ErrAlreadyClockedIn
		}

		event, err := s.append(txCtx, id, EventIn, last)
		if err != nil {
			return err
		}
		created = event
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "clocked in",
		slog.String("employee_id", id),
		slog.Time("at", created.OccurredAt),
	)
	return created, nil
}

// ClockOut は退勤を記録し、対応する IN と組にして勤務時間を集計します。
// 打刻の追記と集計は同じトランザクションで行われます。
func (s *Service) ClockOut(ctx context.Context, employeeID string) (*Interval, error) {
	id, err := employee.NormalizeID(employeeID)
	if err != nil {
		return nil, err
	}

	var interval *Interval
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		last, err := s.lockAndLatest(txCtx, id)
		if err != nil {
			return err
		}
		if last == nil || last.Type != EventIn {
			return ErrNotClockedIn
		}

		out, err := s.append(txCtx, id, EventOut, last)
		if err != nil {
			return err
		}

		pair := Interval{EmployeeID: id, In: *last, Out: *out}
		if s.accruer != nil {
			if err := s.accruer.Accrue(txCtx, pair); err != nil {
				return err
			}
		}
		interval = &pair
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "clocked out",
		slog.String("employee_id", id),
		slog.Duration("worked", interval.Duration()),
	)
	return interval, nil
}

// GetStatus は現在の打刻状態と直近のイベントを返します。
func (s *Service) GetStatus(ctx context.Context, employeeID string) (*Status, error) {
	id, err := employee.NormalizeID(employeeID)
	if err != nil {
		return nil, err
	}

	var recent []*Event
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.events.Recent(txCtx, id, s.recentEvents)
		if err != nil {
			return err
		}
		recent = found
		return nil
	}); err != nil {
		return nil, err
	}

	status := &Status{RecentEvents: recent}
	if len(recent) > 0 {
		status.LastEvent = recent[0]
		status.IsClockedIn = recent[0].Type == EventIn
	}
	return status, nil
}

func (s *Service) lockAndLatest(ctx context.Context, employeeID string) (*Event, error) {
	emp, err := s.employees.LockByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.IsActive {
		return nil, employee.ErrEmployeeInactive
	}

	last, err := s.events.Latest(ctx, employeeID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return last, nil
}

func (s *Service) append(ctx context.Context, employeeID string, typ EventType, previous *Event) (*Event, error) {
	now := s.clock.Now().Truncate(time.Microsecond)
	if previous != nil && !now.After(previous.OccurredAt) {
		return nil, ErrOutOfOrder
	}
	return s.events.Append(ctx, &Event{
		EmployeeID: employeeID,
		Type:       typ,
		OccurredAt: now,
	})
}

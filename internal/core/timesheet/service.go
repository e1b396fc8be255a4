package timesheet

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/clock"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
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
	defaultNotificationLimit = 50
	maxFeedbackLength        = 2000
)

// UseCase はタイムシートのユースケースの公開インターフェースです。
type UseCase interface {
	ListEntries(ctx context.Context, employeeID, payPeriodID string) (*EntryList, error)
	Submit(ctx context.Context, employeeID, payPeriodID string) (int, error)
	GetStatus(ctx context.Context, employeeID string) (*StatusView, error)
	ListWeekly(ctx context.Context, actor apperr.Actor, payPeriodID string) ([]*WeeklySummary, error)
	Report(ctx context.Context, actor apperr.Actor, payPeriodID string) (*PeriodReport, error)
	Approve(ctx context.Context, in ReviewInput) ([]*Entry, error)
	Deny(ctx context.Context, in ReviewInput) ([]*Entry, error)
	Rebuild(ctx context.Context, actor apperr.Actor, employeeID, payPeriodID string) (*RebuildResult, error)
	ListNotifications(ctx context.Context, employeeID string, unreadOnly bool) ([]*Notification, error)
	SendReminders(ctx context.Context) (int, error)
}

var (
	_ UseCase       = (*Service)(nil)
	_ clock.Accruer = (*Service)(nil)
)

// Option は Service の任意設定です。
type Option func(*Service)

// WithStatusCache は状態参照のキャッシュを設定します。
func WithStatusCache(cache StatusCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// Service は勤務時間の集計・提出・承認・状態参照をまとめます。
type Service struct {
	entries       EntryRepository
	weekly        WeeklyStatusRepository
	notifications NotificationRepository
	events        EventReader
	periods       PeriodProvider
	calendar      workcal.Calendar
	clock         Clock
	tx            TransactionManager
	cache         StatusCache
	logger        *slog.Logger
}

// NewService は Service を生成します。
func NewService(repos Repositories, periods PeriodProvider, calendar workcal.Calendar, clk Clock, tx TransactionManager, logger *slog.Logger, opts ...Option) *Service {
	if clk == nil {
		clk = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		entries:       repos.Entries,
		weekly:        repos.Weekly,
		notifications: repos.Notifications,
		events:        repos.Events,
		periods:       periods,
		calendar:      calendar,
		clock:         clk,
		tx:            tx,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolvePeriod は ID が空なら現在の期間を、そうでなければ指定の期間を返します。
func (s *Service) resolvePeriod(ctx context.Context, payPeriodID string) (*payperiod.PayPeriod, error) {
	if strings.TrimSpace(payPeriodID) == "" {
		return s.periods.GetOrCreateCurrent(ctx)
	}
	return s.periods.GetByID(ctx, payPeriodID)
}

func (s *Service) invalidate(ctx context.Context, employeeID string, weekStart workcal.Date) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, employeeID, weekStart); err != nil {
		s.logger.WarnContext(ctx, "status cache invalidation failed",
			slog.String("employee_id", employeeID),
			slog.Any("error", err),
		)
	}
}

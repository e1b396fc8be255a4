// Package app は設定からリポジトリとサービスを組み立てます。
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	rediscache "github.com/ogurasousui/timesheet-engine/internal/adapters/cache/redis"
	"github.com/ogurasousui/timesheet-engine/internal/adapters/repository/postgres"
	"github.com/ogurasousui/timesheet-engine/internal/core/clock"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/timesheet"
	"github.com/ogurasousui/timesheet-engine/internal/platform/config"
	pg "github.com/ogurasousui/timesheet-engine/internal/platform/db/postgres"
	goredis "github.com/redis/go-redis/v9"
)

// Services はアプリケーションのユースケース一式です。
type Services struct {
	Clock      *clock.Service
	Timesheets *timesheet.Service
	Periods    *payperiod.Service
	Employees  *employee.Service
}

// NewServices は PostgreSQL のリポジトリでサービスを組み立てます。cache は nil でも構いません。
func NewServices(cfg *config.Config, pool *pgxpool.Pool, cache timesheet.StatusCache, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}

	tx := pg.NewTransactionManager(pool)
	calendar := cfg.Timesheet.Calendar()

	employeeRepo := postgres.NewEmployeeRepository(pool)
	eventRepo := postgres.NewClockEventRepository(pool)

	periods := payperiod.NewService(postgres.NewPayPeriodRepository(pool), calendar, nil, tx, logger)

	var opts []timesheet.Option
	if cache != nil {
		opts = append(opts, timesheet.WithStatusCache(cache))
	}
	timesheets := timesheet.NewService(timesheet.Repositories{
		Entries:       postgres.NewTimesheetEntryRepository(pool),
		Weekly:        postgres.NewWeeklyStatusRepository(pool),
		Notifications: postgres.NewNotificationRepository(pool),
		Events:        eventRepo,
	}, periods, calendar, nil, tx, logger, opts...)

	clk := clock.NewService(eventRepo, employeeRepo, timesheets, nil, tx, logger,
		clock.WithRecentEvents(cfg.Timesheet.RecentEvents),
	)

	return &Services{
		Clock:      clk,
		Timesheets: timesheets,
		Periods:    periods,
		Employees:  employee.NewService(employeeRepo, nil, tx, logger),
	}
}

// OpenStatusCache は Redis の状態キャッシュを開きます。未設定なら nil を返します。
func OpenStatusCache(ctx context.Context, cfg config.RedisConfig) (timesheet.StatusCache, func() error, error) {
	if !cfg.Enabled() {
		return nil, func() error { return nil }, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return rediscache.NewStatusCache(client, cfg.StatusTTL), client.Close, nil
}

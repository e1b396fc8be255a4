package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/ogurasousui/timesheet-engine/internal/adapters/grpc/handler"
	"github.com/ogurasousui/timesheet-engine/internal/app"
	"github.com/ogurasousui/timesheet-engine/internal/platform/config"
	pg "github.com/ogurasousui/timesheet-engine/internal/platform/db/postgres"
	"github.com/ogurasousui/timesheet-engine/internal/platform/logging"
	"github.com/ogurasousui/timesheet-engine/internal/platform/server"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.Log, nil)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	cache, closeCache, err := app.OpenStatusCache(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = closeCache() }()

	svcs := app.NewServices(cfg, dbPool, cache, logger)
	h := handler.NewTimesheetGrpcHandler(svcs.Clock, svcs.Timesheets, svcs.Periods, svcs.Employees)
	grpcServer := server.New(cfg.Server.ListenAddr, h, logger)

	logger.InfoContext(ctx, "starting timesheet engine",
		slog.String("timezone", cfg.Timesheet.Timezone),
		slog.String("week_start", cfg.Timesheet.WeekStart),
		slog.Bool("status_cache", cfg.Redis.Enabled()),
		slog.Duration("reminder_interval", cfg.Reminder.Interval),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})
	g.Go(func() error {
		return app.RunReminders(gctx, svcs.Timesheets, cfg.Reminder.Interval, logger)
	})
	return g.Wait()
}

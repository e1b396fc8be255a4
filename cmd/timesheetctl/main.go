package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/ogurasousui/timesheet-engine/internal/app"
	"github.com/ogurasousui/timesheet-engine/internal/cli"
	"github.com/ogurasousui/timesheet-engine/internal/platform/config"
	pg "github.com/ogurasousui/timesheet-engine/internal/platform/db/postgres"
	"github.com/ogurasousui/timesheet-engine/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(openBackend).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openBackend(ctx context.Context, configPath string) (*cli.Backend, func(), error) {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		configPath = "assets/local.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.Log, os.Stderr)

	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	cache, closeCache, err := app.OpenStatusCache(ctx, cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	svcs := app.NewServices(cfg, pool, cache, logger)
	closeFn := func() {
		_ = closeCache()
		pool.Close()
	}
	return &cli.Backend{Timesheets: svcs.Timesheets, Periods: svcs.Periods}, closeFn, nil
}

// Package cli は管理用コマンド timesheetctl を定義します。
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"github.com/ogurasousui/timesheet-engine/internal/core/payperiod"
	"github.com/ogurasousui/timesheet-engine/internal/core/timesheet"
	"github.com/spf13/cobra"
)

// Backend はコマンドが呼び出すユースケースです。
type Backend struct {
	Timesheets timesheet.UseCase
	Periods    payperiod.UseCase
}

// Opener は設定ファイルのパスから Backend を用意します。返された関数で資源を解放します。
type Opener func(ctx context.Context, configPath string) (*Backend, func(), error)

type rootOptions struct {
	configPath string
	operator   string
}

// NewRootCommand は timesheetctl のコマンドツリーを構築します。
func NewRootCommand(open Opener) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "timesheetctl",
		Short:         "Administer pay periods and weekly timesheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	root.PersistentFlags().StringVar(&opts.operator, "operator", "", "employee id of the manager running the command")

	root.AddCommand(
		newRebuildCommand(open, opts),
		newReportCommand(open, opts),
		newRemindCommand(open, opts),
		newClosePeriodCommand(open, opts),
		newMarkPaidCommand(open, opts),
	)
	return root
}

// actor はコマンドの実行者です。管理コマンドは manager として実行されます。
func (o *rootOptions) actor() (apperr.Actor, error) {
	if strings.TrimSpace(o.operator) == "" {
		return apperr.Actor{IsManager: true}, nil
	}
	id, err := employee.NormalizeID(o.operator)
	if err != nil {
		return apperr.Actor{}, fmt.Errorf("--operator: %w", err)
	}
	return apperr.Actor{EmployeeID: id, IsManager: true}, nil
}

// withBackend は Backend を開いて fn を実行し、終了後に解放します。
func withBackend(cmd *cobra.Command, open Opener, opts *rootOptions, fn func(context.Context, *Backend, apperr.Actor) error) error {
	actor, err := opts.actor()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	backend, closeFn, err := open(ctx, opts.configPath)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(ctx, backend, actor)
}

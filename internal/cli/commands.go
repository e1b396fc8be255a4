package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ogurasousui/timesheet-engine/internal/adapters/report/xlsx"
	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/workcal"
	"github.com/spf13/cobra"
)

func newRebuildCommand(open Opener, opts *rootOptions) *cobra.Command {
	var employeeID, periodID string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute an employee's daily hours for a pay period from the clock log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, opts, func(ctx context.Context, b *Backend, actor apperr.Actor) error {
				result, err := b.Timesheets.Rebuild(ctx, actor, employeeID, periodID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, day := range result.Days {
					fmt.Fprintf(out, "%s\t%s\n", day.WorkDate, day.Hours.StringFixed(3))
				}
				fmt.Fprintf(out, "total\t%s\n", result.TotalHours.StringFixed(3))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "employee id")
	cmd.Flags().StringVar(&periodID, "period", "", "pay period id")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func newReportCommand(open Opener, opts *rootOptions) *cobra.Command {
	var periodID, outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the weekly timesheets of a pay period as an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, opts, func(ctx context.Context, b *Backend, actor apperr.Actor) error {
				report, err := b.Timesheets.Report(ctx, actor, periodID)
				if err != nil {
					return err
				}

				path := outPath
				if path == "" {
					path = fmt.Sprintf("timesheets-%s.xlsx", report.Period.StartDate)
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create report file: %w", err)
				}
				if err := xlsx.WriteWeeklyReport(f, report); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close report file: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d employees to %s\n", len(report.Summaries), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&periodID, "period", "", "pay period id (defaults to the current period)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file path")
	return cmd
}

func newRemindCommand(open Opener, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Record reminders for employees with unsubmitted entries in the current period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, opts, func(ctx context.Context, b *Backend, _ apperr.Actor) error {
				sent, err := b.Timesheets.SendReminders(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reminders sent: %d\n", sent)
				return nil
			})
		},
	}
}

func newClosePeriodCommand(open Opener, opts *rootOptions) *cobra.Command {
	var periodID string

	cmd := &cobra.Command{
		Use:   "close-period",
		Short: "Close a pay period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, opts, func(ctx context.Context, b *Backend, actor apperr.Actor) error {
				period, err := b.Periods.Close(ctx, actor, periodID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s..%s %s\n", period.ID, period.StartDate, period.EndDate, period.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&periodID, "id", "", "pay period id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newMarkPaidCommand(open Opener, opts *rootOptions) *cobra.Command {
	var periodID, paymentDate string

	cmd := &cobra.Command{
		Use:   "mark-paid",
		Short: "Mark a closed pay period as paid",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := workcal.ParseDate(paymentDate)
			if err != nil {
				return fmt.Errorf("--payment-date: %w", err)
			}
			return withBackend(cmd, open, opts, func(ctx context.Context, b *Backend, actor apperr.Actor) error {
				period, err := b.Periods.MarkPaid(ctx, actor, periodID, date)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s paid on %s\n", period.ID, period.Status, date)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&periodID, "id", "", "pay period id")
	cmd.Flags().StringVar(&paymentDate, "payment-date", "", "payment date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("payment-date")
	return cmd
}

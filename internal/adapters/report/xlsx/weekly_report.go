// Package xlsx は期間レポートを Excel 形式で書き出します。
package xlsx

import (
	"fmt"
	"io"

	"github.com/ogurasousui/timesheet-engine/internal/core/timesheet"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	entriesSheet = "Entries"
	hoursFormat  = "0.000"
)

var (
	summaryHeaders = []string{"Employee ID", "Week Start", "Entries", "Total Hours", "Status"}
	entryHeaders   = []string{"Employee ID", "Work Date", "Hours", "Status", "Submissions", "Reviewer ID", "Reviewed At", "Manager Feedback"}
)

// WriteWeeklyReport は report を 2 シート (Summary / Entries) のブックとして w に書き込みます。
func WriteWeeklyReport(w io.Writer, report *timesheet.PeriodReport) error {
	if report == nil || report.Period == nil {
		return fmt.Errorf("xlsx: report is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(entriesSheet); err != nil {
		return fmt.Errorf("xlsx: create sheet: %w", err)
	}

	hoursStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(hoursFormat)})
	if err != nil {
		return fmt.Errorf("xlsx: create style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: create style: %w", err)
	}

	if err := writeHeader(f, summarySheet, summaryHeaders, headerStyle); err != nil {
		return err
	}
	for i, summary := range report.Summaries {
		row := i + 2
		hours, _ := summary.TotalHours.Float64()
		if err := writeRow(f, summarySheet, row, []any{
			summary.EmployeeID,
			summary.WeekStart.String(),
			summary.EntryCount,
			hours,
			string(summary.Status),
		}); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, cell(4, row), cell(4, row), hoursStyle); err != nil {
			return fmt.Errorf("xlsx: set style: %w", err)
		}
	}

	if err := writeHeader(f, entriesSheet, entryHeaders, headerStyle); err != nil {
		return err
	}
	for i, entry := range report.Entries {
		row := i + 2
		hours, _ := entry.HoursWorked.Float64()
		if err := writeRow(f, entriesSheet, row, []any{
			entry.EmployeeID,
			entry.WorkDate.String(),
			hours,
			string(entry.Status),
			entry.SubmissionCount,
			deref(entry.ReviewerID),
			reviewedAt(entry),
			deref(entry.ManagerFeedback),
		}); err != nil {
			return err
		}
		if err := f.SetCellStyle(entriesSheet, cell(3, row), cell(3, row), hoursStyle); err != nil {
			return fmt.Errorf("xlsx: set style: %w", err)
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Timesheets %s - %s", report.Period.StartDate, report.Period.EndDate),
		Subject: report.Period.ID,
	}); err != nil {
		return fmt.Errorf("xlsx: set properties: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	if err := writeRow(f, sheet, 1, toAny(headers)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, 1), cell(len(headers), 1), style); err != nil {
		return fmt.Errorf("xlsx: set header style: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
		return fmt.Errorf("xlsx: write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func reviewedAt(entry *timesheet.Entry) string {
	if entry.ReviewedAt == nil {
		return ""
	}
	return entry.ReviewedAt.UTC().Format("2006-01-02 15:04:05")
}

func ptr[T any](v T) *T {
	return &v
}

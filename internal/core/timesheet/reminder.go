package timesheet

import (
	"context"
	"fmt"
	"log/slog"
)

// SendReminders は現在の期間で未提出 (draft) のエントリを持つ社員に催促通知を記録します。
// 同じエントリへの催促は 1 度だけで、記録した件数を返します。
func (s *Service) SendReminders(ctx context.Context) (int, error) {
	sent := 0
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		period, err := s.periods.GetOrCreateCurrent(txCtx)
		if err != nil {
			return err
		}

		entries, err := s.entries.List(txCtx, EntryFilter{PayPeriodID: period.ID})
		if err != nil {
			return err
		}

		latest := make(map[string]*Entry)
		for _, entry := range entries {
			if entry.Status != EntryDraft {
				continue
			}
			current, ok := latest[entry.EmployeeID]
			if !ok || entry.WorkDate.After(current.WorkDate) {
				latest[entry.EmployeeID] = entry
			}
		}

		now := s.clock.Now()
		for empID, entry := range latest {
			exists, err := s.notifications.ExistsForEntry(txCtx, entry.ID, NotificationReminder)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if _, err := s.notifications.Create(txCtx, &Notification{
				EmployeeID:       empID,
				TimesheetEntryID: entry.ID,
				Type:             NotificationReminder,
				Message:          fmt.Sprintf("Please submit your timesheet for the week of %s.", period.StartDate),
				CreatedAt:        now,
			}); err != nil {
				return err
			}
			sent++
		}
		return nil
	}); err != nil {
		return 0, err
	}

	if sent > 0 {
		s.logger.InfoContext(ctx, "timesheet reminders recorded", slog.Int("count", sent))
	}
	return sent, nil
}

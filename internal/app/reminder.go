package app

import (
	"context"
	"log/slog"
	"time"
)

// ReminderSender は催促通知を記録します。
type ReminderSender interface {
	SendReminders(ctx context.Context) (int, error)
}

// RunReminders は interval ごとに催促通知を記録します。ctx がキャンセルされるまで戻りません。
// 1 回の失敗でワーカーは止まりません。
func RunReminders(ctx context.Context, sender ReminderSender, interval time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		logger.InfoContext(ctx, "reminder worker disabled")
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sent, err := sender.SendReminders(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "send reminders failed", slog.String("error", err.Error()))
				continue
			}
			logger.InfoContext(ctx, "reminders sent", slog.Int("count", sent))
		}
	}
}

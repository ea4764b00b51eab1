package utils

import (
	"context"
	"time"

	"a1taxi/db"
	"a1taxi/stores"

	"go.uber.org/zap"
)

// StartRetentionWorker runs a background process that cleans up old quote
// logs, expired OTP rows and handled notifications.
// Default policy: sweep every 24 hours, keep 30 days of audit data.
func StartRetentionWorker(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runCleanup()
			case <-ctx.Done():
				Logger.Info("Retention Worker shutting down...")
				return
			}
		}
	}()
}

func runCleanup() {
	Logger.Info("Running Retention Cleanup...")

	ctx := context.Background()
	cutoff := time.Now().AddDate(0, 0, -30)

	quoteRes, err := db.Pool.Exec(ctx,
		`DELETE FROM fare_quote_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		Logger.Error("Quote Log Cleanup Failed", zap.Error(err))
		return
	}

	otpRes, err := db.Pool.Exec(ctx,
		`DELETE FROM otp_verifications WHERE expires_at < NOW()`)
	if err != nil {
		Logger.Error("OTP Cleanup Failed", zap.Error(err))
		return
	}

	notifCount, err := stores.PurgeOldNotifications(ctx, 30*24*time.Hour)
	if err != nil {
		Logger.Error("Notification Cleanup Failed", zap.Error(err))
		return
	}

	Logger.Info("Retention Cleanup Completed",
		zap.Int64("quoteLogs", quoteRes.RowsAffected()),
		zap.Int64("otpRows", otpRes.RowsAffected()),
		zap.Int64("notifications", notifCount))
}

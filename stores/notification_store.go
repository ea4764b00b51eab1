package stores

import (
	"context"
	"encoding/json"
	"time"

	"a1taxi/db"
	"a1taxi/dispatch"
	"a1taxi/models"
)

// InsertDispatchNotifications writes one inbox row per notified driver in a
// single transaction. All-or-nothing: a partial batch would make the
// notified-driver count reported to the customer a lie.
func InsertDispatchNotifications(ctx context.Context, records []dispatch.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, rec := range records {
		data, err := json.Marshal(rec.Data)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO notifications (user_id, type, title, message, data, status)
			VALUES ($1, 'ride_request', $2, $3, $4, $5)`,
			rec.DriverUserID, rec.Title, rec.Message, data, rec.Status)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListUnreadNotifications returns a driver's unread inbox, newest first.
func ListUnreadNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, type, title, message, COALESCE(data, 'null'::jsonb), status, created_at
		FROM notifications
		WHERE user_id = $1 AND status = 'unread'
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var data []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &data, &n.Status, &n.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(data, &n.Data)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flips a single notification to read.
func MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE notifications SET status = 'read'
		WHERE id = $1 AND user_id = $2`, notificationID, userID)
	return err
}

// DismissRideNotifications marks every other driver's request for a ride as
// dismissed once someone accepts it.
func DismissRideNotifications(ctx context.Context, rideID, acceptedUserID string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE notifications SET status = 'dismissed'
		WHERE type = 'ride_request' AND data->>'ride_id' = $1 AND user_id <> $2 AND status = 'unread'`,
		rideID, acceptedUserID)
	return err
}

// PurgeOldNotifications deletes read/dismissed rows older than the cutoff.
func PurgeOldNotifications(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM notifications
		WHERE status <> 'unread' AND created_at < NOW() - $1::interval`,
		olderThan.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

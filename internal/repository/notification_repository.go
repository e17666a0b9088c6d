package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/space-rental/internal/model"
)

// NotificationRepo persists in-app notifications.  Rows are written by
// the notification service as lifecycle events happen and read back by
// the notification endpoints.
type NotificationRepo struct{ db *sql.DB }

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts a notification row and populates the generated ID.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications
		(user_id, notification_type, title, message, related_object_id, related_object_type)
		VALUES (?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		n.UserID, string(n.Type), n.Title, n.Message, n.RelatedID, n.RelatedKind)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// NotificationItem is the JSON shape returned to clients.
type NotificationItem struct {
	ID        uint64  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	RelatedID *uint64 `json:"related_id,omitempty"`
	IsRead    bool    `json:"is_read"`
	CreatedAt string  `json:"created_at"`
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]NotificationItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `SELECT id, notification_type, title, message, related_object_id, is_read, created_at
		FROM notifications WHERE user_id=? ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]NotificationItem, 0)
	for rows.Next() {
		var (
			it        NotificationItem
			relatedID sql.NullInt64
			created   time.Time
		)
		if err := rows.Scan(&it.ID, &it.Type, &it.Title, &it.Message, &relatedID, &it.IsRead, &created); err != nil {
			return nil, err
		}
		if relatedID.Valid {
			v := uint64(relatedID.Int64)
			it.RelatedID = &v
		}
		it.CreatedAt = created.UTC().Format(time.RFC3339)
		items = append(items, it)
	}
	return items, rows.Err()
}

// CountUnread returns how many unread notifications the user has.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID uint64) (uint64, error) {
	var n uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=0", userID).Scan(&n)
	return n, err
}

// MarkRead marks one of the user's notifications as read.  Ownership is
// enforced in the WHERE clause.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		if err := r.db.QueryRowContext(ctx,
			"SELECT id FROM notifications WHERE id=? AND user_id=? LIMIT 1", id, userID).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// MarkAllRead marks every notification of the user as read and returns
// the number of rows affected.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE user_id=? AND is_read=0", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/space-rental/internal/model"
)

// MessageRepo persists direct messages between tenants and landlords.
type MessageRepo struct{ db *sql.DB }

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Create inserts a message and populates the generated ID.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	const q = `INSERT INTO messages (sender_id, recipient_id, property_id, subject, body)
		VALUES (?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, m.SenderID, m.RecipientID, m.PropertyID, m.Subject, m.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// MessageItem is the JSON shape returned to clients.
type MessageItem struct {
	ID         uint64  `json:"id"`
	SenderID   uint64  `json:"sender_id"`
	Sender     string  `json:"sender_name"`
	PropertyID *uint64 `json:"property_id,omitempty"`
	Subject    string  `json:"subject"`
	Body       string  `json:"body"`
	IsRead     bool    `json:"is_read"`
	CreatedAt  string  `json:"created_at"`
}

// Inbox returns messages received by the user, newest first.
func (r *MessageRepo) Inbox(ctx context.Context, userID uint64, limit int) ([]MessageItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `SELECT m.id, m.sender_id, u.full_name, m.property_id, m.subject, m.body, m.is_read, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.recipient_id=? ORDER BY m.created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]MessageItem, 0)
	for rows.Next() {
		var (
			it         MessageItem
			propertyID sql.NullInt64
			created    time.Time
		)
		if err := rows.Scan(&it.ID, &it.SenderID, &it.Sender, &propertyID, &it.Subject, &it.Body, &it.IsRead, &created); err != nil {
			return nil, err
		}
		if propertyID.Valid {
			v := uint64(propertyID.Int64)
			it.PropertyID = &v
		}
		it.CreatedAt = created.UTC().Format(time.RFC3339)
		items = append(items, it)
	}
	return items, rows.Err()
}

// MarkRead marks a received message as read, scoped to the recipient.
func (r *MessageRepo) MarkRead(ctx context.Context, id, recipientID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE messages SET is_read=1 WHERE id=? AND recipient_id=?", id, recipientID)
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
			"SELECT id FROM messages WHERE id=? AND recipient_id=? LIMIT 1", id, recipientID).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/space-rental/internal/model"
)

// ReviewRepo provides CRUD operations for property reviews and their
// moderation lifecycle.
type ReviewRepo struct{ db *sql.DB }

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review in pending moderation status and populates the
// generated ID.  The unique key on (property_id, user_id) maps MySQL
// duplicate-key errors to ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	const q = `INSERT INTO reviews
		(property_id, user_id, booking_id, rating, comment, status, is_verified)
		VALUES (?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		rv.PropertyID, rv.UserID, rv.BookingID, rv.Rating, rv.Comment, string(rv.Status), rv.IsVerified)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateReview
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// HasCompletedBooking reports whether the user has a completed booking
// for the property, which is what entitles them to a verified review.
// The most recent completed booking ID is returned when present.
func (r *ReviewRepo) HasCompletedBooking(ctx context.Context, userID, propertyID uint64) (uint64, bool, error) {
	const q = `SELECT id FROM bookings
		WHERE tenant_id=? AND property_id=? AND status='completed'
		ORDER BY end_at DESC LIMIT 1`
	var id uint64
	err := r.db.QueryRowContext(ctx, q, userID, propertyID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ReviewDetail is the review shape returned to listings: the review
// joined with its author's display name.
type ReviewDetail struct {
	ID         uint64  `json:"id"`
	PropertyID uint64  `json:"property_id"`
	UserID     uint64  `json:"user_id"`
	Author     string  `json:"author"`
	Rating     uint8   `json:"rating"`
	Comment    string  `json:"comment"`
	Status     string  `json:"status"`
	Verified   bool    `json:"is_verified"`
	AdminNote  *string `json:"admin_comment,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

const reviewSelect = `SELECT r.id, r.property_id, r.user_id, u.full_name, r.rating, r.comment,
		r.status, r.is_verified, r.admin_comment, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

func (r *ReviewRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]ReviewDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReviewDetail, 0)
	for rows.Next() {
		var (
			d       ReviewDetail
			note    sql.NullString
			created time.Time
		)
		if err := rows.Scan(&d.ID, &d.PropertyID, &d.UserID, &d.Author, &d.Rating, &d.Comment,
			&d.Status, &d.Verified, &note, &created); err != nil {
			return nil, err
		}
		if note.Valid {
			s := note.String
			d.AdminNote = &s
		}
		d.CreatedAt = created.UTC().Format(time.RFC3339)
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListApprovedByProperty returns the approved reviews of a property,
// newest first, along with the average approved rating (0 when none).
func (r *ReviewRepo) ListApprovedByProperty(ctx context.Context, propertyID uint64) ([]ReviewDetail, float64, error) {
	details, err := r.queryDetails(ctx,
		reviewSelect+" WHERE r.property_id=? AND r.status='approved' ORDER BY r.created_at DESC",
		propertyID)
	if err != nil {
		return nil, 0, err
	}
	var avg sql.NullFloat64
	err = r.db.QueryRowContext(ctx,
		"SELECT AVG(rating) FROM reviews WHERE property_id=? AND status='approved'", propertyID).Scan(&avg)
	if err != nil {
		return nil, 0, err
	}
	return details, avg.Float64, nil
}

// ListByStatus returns reviews in a moderation status, oldest first.
func (r *ReviewRepo) ListByStatus(ctx context.Context, status model.ReviewStatus, limit, offset int) ([]ReviewDetail, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return r.queryDetails(ctx,
		reviewSelect+" WHERE r.status=? ORDER BY r.created_at ASC LIMIT ? OFFSET ?",
		string(status), limit, offset)
}

// Moderate applies an approve/reject decision with an optional moderator
// note.  Returns sql.ErrNoRows when the review does not exist.
func (r *ReviewRepo) Moderate(ctx context.Context, id uint64, status model.ReviewStatus, adminComment *string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET status=?, admin_comment=? WHERE id=?",
		string(status), adminComment, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		if err := r.db.QueryRowContext(ctx, "SELECT id FROM reviews WHERE id=? LIMIT 1", id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

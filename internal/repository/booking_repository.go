package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/space-rental/internal/booking"
	"github.com/iliyamo/space-rental/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  The conflict
// check and the insert always run inside one transaction: the check
// takes locks on the matching index range (SELECT ... FOR UPDATE), so
// two concurrent requests for overlapping spans cannot both pass the
// check and insert.  All timestamp fields are stored in UTC.
type BookingRepo struct{ db *sql.DB }

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, reference, property_id, tenant_id, start_at, end_at, unit,
	guests, special_requests, total_cents, status, created_at, updated_at`

func scanBooking(scan func(dest ...interface{}) error) (*model.Booking, error) {
	var (
		b        model.Booking
		unit     string
		status   string
		requests sql.NullString
	)
	err := scan(&b.ID, &b.Reference, &b.PropertyID, &b.TenantID, &b.StartAt, &b.EndAt, &unit,
		&b.Guests, &requests, &b.TotalCents, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Unit = booking.Unit(unit)
	b.Status = booking.Status(status)
	if requests.Valid {
		s := requests.String
		b.SpecialRequests = &s
	}
	return &b, nil
}

// FindConflictTx looks for a pending or confirmed booking of the same
// property whose half-open span overlaps [start, end).  Touching
// endpoints do not overlap.  excludeID skips the booking's own row when
// re-validating an edit; pass 0 on creation.  The FOR UPDATE clause
// locks the matched range for the lifetime of the transaction so the
// caller's subsequent insert is race-free.
func (r *BookingRepo) FindConflictTx(ctx context.Context, tx *sql.Tx, propertyID uint64, start, end time.Time, excludeID uint64) (uint64, bool, error) {
	const q = `SELECT id FROM bookings
		WHERE property_id = ?
		  AND status IN ('pending','confirmed')
		  AND start_at < ?
		  AND end_at > ?
		  AND id <> ?
		LIMIT 1
		FOR UPDATE`
	var id uint64
	err := tx.QueryRowContext(ctx, q, propertyID, end, start, excludeID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// CreateTx inserts a booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided struct.  The caller must have run FindConflictTx in the same
// transaction first and must commit or rollback.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(reference, property_id, tenant_id, start_at, end_at, unit, guests, special_requests, total_cents, status)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		b.Reference, b.PropertyID, b.TenantID, b.StartAt, b.EndAt, string(b.Unit),
		b.Guests, b.SpecialRequests, b.TotalCents, string(b.Status))
	if err != nil {
		if isDeadlock(err) {
			return ErrTxDeadlock
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM bookings WHERE id=?", b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id)
	return scanBooking(row.Scan)
}

// GetForUpdateTx loads a booking and its property's landlord inside a
// transaction, locking the booking row so a status change cannot race a
// concurrent transition on the same booking.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, uint64, error) {
	const q = `SELECT b.id, b.reference, b.property_id, b.tenant_id, b.start_at, b.end_at, b.unit,
			b.guests, b.special_requests, b.total_cents, b.status, b.created_at, b.updated_at,
			p.landlord_id
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE b.id = ?
		FOR UPDATE`
	var (
		b          model.Booking
		unit       string
		status     string
		requests   sql.NullString
		landlordID uint64
	)
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.Reference, &b.PropertyID, &b.TenantID, &b.StartAt, &b.EndAt, &unit,
		&b.Guests, &requests, &b.TotalCents, &status, &b.CreatedAt, &b.UpdatedAt,
		&landlordID)
	if err != nil {
		return nil, 0, err
	}
	b.Unit = booking.Unit(unit)
	b.Status = booking.Status(status)
	if requests.Valid {
		s := requests.String
		b.SpecialRequests = &s
	}
	return &b, landlordID, nil
}

// UpdateStatusTx writes a new lifecycle status within a transaction.
// The transition itself must have been validated by the booking package
// before calling this.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status booking.Status) error {
	_, err := tx.ExecContext(ctx, "UPDATE bookings SET status=? WHERE id=?", string(status), id)
	return err
}

// BookingDetail is the booking shape returned to listings: the booking
// joined with its property title and city.
type BookingDetail struct {
	ID         uint64  `json:"id"`
	Reference  string  `json:"reference"`
	PropertyID uint64  `json:"property_id"`
	Property   string  `json:"property_title"`
	City       string  `json:"property_city"`
	TenantID   uint64  `json:"tenant_id"`
	StartAt    string  `json:"start_at"`
	EndAt      string  `json:"end_at"`
	Unit       string  `json:"unit"`
	Guests     uint32  `json:"guests"`
	TotalCents int64   `json:"total_cents"`
	Status     string  `json:"status"`
	Requests   *string `json:"special_requests,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

const detailSelect = `SELECT b.id, b.reference, b.property_id, p.title, p.city, b.tenant_id,
		b.start_at, b.end_at, b.unit, b.guests, b.total_cents, b.status, b.special_requests, b.created_at
	FROM bookings b
	JOIN properties p ON p.id = b.property_id`

func (r *BookingRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var (
			d          BookingDetail
			start, end time.Time
			created    time.Time
			requests   sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Reference, &d.PropertyID, &d.Property, &d.City, &d.TenantID,
			&start, &end, &d.Unit, &d.Guests, &d.TotalCents, &d.Status, &requests, &created); err != nil {
			return nil, err
		}
		d.StartAt = start.UTC().Format(time.RFC3339)
		d.EndAt = end.UTC().Format(time.RFC3339)
		d.CreatedAt = created.UTC().Format(time.RFC3339)
		if requests.Valid {
			s := requests.String
			d.Requests = &s
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListByTenant returns all bookings made by the tenant, newest first.
func (r *BookingRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]BookingDetail, error) {
	q := detailSelect + " WHERE b.tenant_id=? ORDER BY b.created_at DESC"
	return r.queryDetails(ctx, q, tenantID)
}

// ListByLandlord returns bookings across every property the landlord
// owns, optionally filtered by status, newest first.
func (r *BookingRepo) ListByLandlord(ctx context.Context, landlordID uint64, status booking.Status) ([]BookingDetail, error) {
	q := detailSelect + " WHERE p.landlord_id=?"
	args := []interface{}{landlordID}
	if status != "" {
		q += " AND b.status=?"
		args = append(args, string(status))
	}
	q += " ORDER BY b.created_at DESC"
	return r.queryDetails(ctx, q, args...)
}

// ListAll returns bookings platform-wide for moderation, optionally
// filtered by status and property.
func (r *BookingRepo) ListAll(ctx context.Context, status booking.Status, propertyID uint64, limit, offset int) ([]BookingDetail, error) {
	q := detailSelect + " WHERE 1=1"
	args := []interface{}{}
	if status != "" {
		q += " AND b.status=?"
		args = append(args, string(status))
	}
	if propertyID != 0 {
		q += " AND b.property_id=?"
		args = append(args, propertyID)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q += " ORDER BY b.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	return r.queryDetails(ctx, q, args...)
}

// ListBlockingSpans returns the pending and confirmed spans of a
// property that intersect the window [from, to), for availability
// calendars.  Statuses are included so the pure checker can be reused
// on the result.
func (r *BookingRepo) ListBlockingSpans(ctx context.Context, propertyID uint64, from, to time.Time) ([]booking.BookedSpan, error) {
	const q = `SELECT id, start_at, end_at, status FROM bookings
		WHERE property_id = ?
		  AND status IN ('pending','confirmed')
		  AND start_at < ?
		  AND end_at > ?
		ORDER BY start_at`
	rows, err := r.db.QueryContext(ctx, q, propertyID, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	spans := make([]booking.BookedSpan, 0)
	for rows.Next() {
		var (
			sp     booking.BookedSpan
			status string
		)
		if err := rows.Scan(&sp.BookingID, &sp.Interval.Start, &sp.Interval.End, &status); err != nil {
			return nil, err
		}
		sp.Status = booking.Status(status)
		spans = append(spans, sp)
	}
	return spans, rows.Err()
}

// UpdateTotal overwrites the stored total price.  This is the single
// sanctioned way to change a price after creation and is reserved for
// admins; the pricing calculator is never re-run implicitly.
func (r *BookingRepo) UpdateTotal(ctx context.Context, id uint64, totalCents int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE bookings SET total_cents=? WHERE id=?", totalCents, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		if err := r.db.QueryRowContext(ctx, "SELECT id FROM bookings WHERE id=? LIMIT 1", id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// StatusCounts returns how many bookings sit in each status.
func (r *BookingRepo) StatusCounts(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM bookings GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]uint64)
	for rows.Next() {
		var (
			status string
			n      uint64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// RevenueSince sums confirmed and completed booking totals created at or
// after the given instant.
func (r *BookingRepo) RevenueSince(ctx context.Context, since time.Time) (int64, error) {
	const q = `SELECT COALESCE(SUM(total_cents), 0) FROM bookings
		WHERE status IN ('confirmed','completed') AND created_at >= ?`
	var total int64
	err := r.db.QueryRowContext(ctx, q, since).Scan(&total)
	return total, err
}

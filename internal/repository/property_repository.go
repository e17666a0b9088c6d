package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/space-rental/internal/model"
)

// PropertyRepo provides CRUD operations for property listings.  All
// timestamp fields are stored in UTC and prices in integer cents.
type PropertyRepo struct{ db *sql.DB }

// NewPropertyRepo returns a new PropertyRepo bound to the given database.
func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span repositories.
func (r *PropertyRepo) DB() *sql.DB { return r.db }

const propertyColumns = `id, landlord_id, title, slug, description, property_type, category_id,
	city, address, hour_cents, day_cents, week_cents, month_cents,
	capacity, area_sq_m_hundredths, status, views_count, created_at, updated_at`

func scanProperty(scan func(dest ...interface{}) error) (*model.Property, error) {
	var (
		p          model.Property
		ptype      string
		status     string
		categoryID sql.NullInt64
		dayCents   sql.NullInt64
		weekCents  sql.NullInt64
		monthCents sql.NullInt64
	)
	err := scan(&p.ID, &p.LandlordID, &p.Title, &p.Slug, &p.Description, &ptype, &categoryID,
		&p.City, &p.Address, &p.HourCents, &dayCents, &weekCents, &monthCents,
		&p.Capacity, &p.AreaSqM, &status, &p.ViewsCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Type = model.PropertyType(ptype)
	p.Status = model.PropertyStatus(status)
	if categoryID.Valid {
		v := uint64(categoryID.Int64)
		p.CategoryID = &v
	}
	if dayCents.Valid {
		v := dayCents.Int64
		p.DayCents = &v
	}
	if weekCents.Valid {
		v := weekCents.Int64
		p.WeekCents = &v
	}
	if monthCents.Valid {
		v := monthCents.Int64
		p.MonthCents = &v
	}
	return &p, nil
}

// Create inserts a listing in draft status and populates the generated
// ID and timestamps on the provided struct.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	const q = `INSERT INTO properties
		(landlord_id, title, slug, description, property_type, category_id, city, address,
		 hour_cents, day_cents, week_cents, month_cents, capacity, area_sq_m_hundredths, status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		p.LandlordID, p.Title, p.Slug, p.Description, string(p.Type), p.CategoryID,
		p.City, p.Address, p.HourCents, p.DayCents, p.WeekCents, p.MonthCents,
		p.Capacity, p.AreaSqM, string(p.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM properties WHERE id=?", p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Update rewrites the mutable listing fields of a property owned by
// landlordID.  Ownership is enforced in the WHERE clause; updating
// somebody else's listing reports ErrForbidden.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property, landlordID uint64) error {
	const q = `UPDATE properties SET title=?, description=?, property_type=?, category_id=?,
		city=?, address=?, hour_cents=?, day_cents=?, week_cents=?, month_cents=?,
		capacity=?, area_sq_m_hundredths=?
		WHERE id=? AND landlord_id=?`
	res, err := r.db.ExecContext(ctx, q,
		p.Title, p.Description, string(p.Type), p.CategoryID, p.City, p.Address,
		p.HourCents, p.DayCents, p.WeekCents, p.MonthCents, p.Capacity, p.AreaSqM,
		p.ID, landlordID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var owner uint64
		if err := r.db.QueryRowContext(ctx,
			"SELECT landlord_id FROM properties WHERE id=? LIMIT 1", p.ID).Scan(&owner); err != nil {
			return err // sql.ErrNoRows -> not found
		}
		if owner != landlordID {
			return ErrForbidden
		}
	}
	return nil
}

// GetByID fetches a property by id.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+propertyColumns+" FROM properties WHERE id=? LIMIT 1", id)
	return scanProperty(row.Scan)
}

// GetBySlug fetches a property by its public slug.
func (r *PropertyRepo) GetBySlug(ctx context.Context, slug string) (*model.Property, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+propertyColumns+" FROM properties WHERE slug=? LIMIT 1", slug)
	return scanProperty(row.Scan)
}

// GetForBookingTx loads a property inside a transaction and verifies it
// is active and bookable.  The FOR UPDATE clause takes the property row
// lock, so concurrent booking creations for the same property serialize
// here instead of colliding on gap locks at insert time.  The returned
// struct carries the rate table and capacity the booking handler needs.
// Returns ErrPropertyNotActive for listings outside active status.
func (r *PropertyRepo) GetForBookingTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Property, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+propertyColumns+" FROM properties WHERE id=? LIMIT 1 FOR UPDATE", id)
	p, err := scanProperty(row.Scan)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PropertyActive {
		return nil, ErrPropertyNotActive
	}
	return p, nil
}

// SearchFilter narrows ListActive.  Zero values mean "no filter".
type SearchFilter struct {
	City         string
	Type         model.PropertyType
	CategoryID   uint64
	MinHourCents int64
	MaxHourCents int64
	MinCapacity  uint32
	Query        string // matched against title and description
	Limit        int
	Offset       int
}

// ListActive returns active listings matching the filter, newest first.
func (r *PropertyRepo) ListActive(ctx context.Context, f SearchFilter) ([]model.Property, error) {
	var (
		where = []string{"status='active'"}
		args  []interface{}
	)
	if f.City != "" {
		where = append(where, "city=?")
		args = append(args, f.City)
	}
	if f.Type != "" {
		where = append(where, "property_type=?")
		args = append(args, string(f.Type))
	}
	if f.CategoryID != 0 {
		where = append(where, "category_id=?")
		args = append(args, f.CategoryID)
	}
	if f.MinHourCents > 0 {
		where = append(where, "hour_cents>=?")
		args = append(args, f.MinHourCents)
	}
	if f.MaxHourCents > 0 {
		where = append(where, "hour_cents<=?")
		args = append(args, f.MaxHourCents)
	}
	if f.MinCapacity > 0 {
		where = append(where, "capacity>=?")
		args = append(args, f.MinCapacity)
	}
	if f.Query != "" {
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		like := "%" + f.Query + "%"
		args = append(args, like, like)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := "SELECT " + propertyColumns + " FROM properties WHERE " + strings.Join(where, " AND ") +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)
	return r.queryProperties(ctx, q, args...)
}

// ListByLandlord returns every listing of a landlord, newest first.
func (r *PropertyRepo) ListByLandlord(ctx context.Context, landlordID uint64) ([]model.Property, error) {
	q := "SELECT " + propertyColumns + " FROM properties WHERE landlord_id=? ORDER BY created_at DESC"
	return r.queryProperties(ctx, q, landlordID)
}

// ListByStatus returns listings in the given status for the moderation
// queue, oldest first so the queue is fair.
func (r *PropertyRepo) ListByStatus(ctx context.Context, status model.PropertyStatus, limit, offset int) ([]model.Property, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := "SELECT " + propertyColumns + " FROM properties WHERE status=? ORDER BY created_at ASC LIMIT ? OFFSET ?"
	return r.queryProperties(ctx, q, string(status), limit, offset)
}

func (r *PropertyRepo) queryProperties(ctx context.Context, q string, args ...interface{}) ([]model.Property, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	props := make([]model.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows.Scan)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}

// SetStatus moves a listing to a new moderation status.  When
// landlordID is non-zero the change is restricted to that landlord's
// listings (submit for moderation, retire); admins pass zero.
func (r *PropertyRepo) SetStatus(ctx context.Context, id uint64, status model.PropertyStatus, landlordID uint64) error {
	q := "UPDATE properties SET status=? WHERE id=?"
	args := []interface{}{string(status), id}
	if landlordID != 0 {
		q += " AND landlord_id=?"
		args = append(args, landlordID)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var owner uint64
		var cur string
		err := r.db.QueryRowContext(ctx,
			"SELECT landlord_id, status FROM properties WHERE id=? LIMIT 1", id).Scan(&owner, &cur)
		if err != nil {
			return err
		}
		if landlordID != 0 && owner != landlordID {
			return ErrForbidden
		}
		// already in the requested status; treat as success
	}
	return nil
}

// IncrementViews bumps the detail page counter.  Failures here are not
// worth surfacing to the user, so callers typically ignore the error.
func (r *PropertyRepo) IncrementViews(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE properties SET views_count=views_count+1 WHERE id=?", id)
	return err
}

package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/space-rental/internal/model"
)

// AmenityRepo provides access to amenities and the property-amenity
// join table.
type AmenityRepo struct{ db *sql.DB }

// NewAmenityRepo returns a new AmenityRepo bound to the given database.
func NewAmenityRepo(db *sql.DB) *AmenityRepo { return &AmenityRepo{db: db} }

func scanAmenities(rows *sql.Rows) ([]model.Amenity, error) {
	items := make([]model.Amenity, 0)
	for rows.Next() {
		var (
			a    model.Amenity
			icon sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &icon, &a.CreatedAt); err != nil {
			return nil, err
		}
		if icon.Valid {
			ic := icon.String
			a.Icon = &ic
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// List returns all amenities ordered by name.
func (r *AmenityRepo) List(ctx context.Context) ([]model.Amenity, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, slug, icon, created_at FROM amenities ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAmenities(rows)
}

// ListByProperty returns the amenities attached to a property.
func (r *AmenityRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Amenity, error) {
	const q = `SELECT a.id, a.name, a.slug, a.icon, a.created_at
		FROM amenities a
		JOIN property_amenities pa ON pa.amenity_id = a.id
		WHERE pa.property_id = ?
		ORDER BY a.name`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAmenities(rows)
}

// SetForProperty replaces the property's amenity set inside the given
// transaction.  Unknown amenity ids fail the foreign key and roll back.
func (r *AmenityRepo) SetForProperty(ctx context.Context, tx *sql.Tx, propertyID uint64, amenityIDs []uint64) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM property_amenities WHERE property_id=?", propertyID); err != nil {
		return err
	}
	for _, id := range amenityIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO property_amenities (property_id, amenity_id) VALUES (?,?)",
			propertyID, id); err != nil {
			return err
		}
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"strings"
)

// FavoriteRepo persists saved properties.  One row per (user, property)
// pair, enforced by a unique key.
type FavoriteRepo struct{ db *sql.DB }

// NewFavoriteRepo returns a new FavoriteRepo bound to the given database.
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Toggle adds the property to the user's favorites, or removes it when
// already present.  It returns true when the property is a favorite
// after the call.
func (r *FavoriteRepo) Toggle(ctx context.Context, userID, propertyID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id=? AND property_id=?", userID, propertyID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil // was a favorite, now removed
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, property_id) VALUES (?,?)", userID, propertyID)
	if err != nil {
		// concurrent toggle may have inserted first; treat as saved
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// ListPropertyIDs returns the ids of the user's favorite properties,
// most recently saved first.
func (r *FavoriteRepo) ListPropertyIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT property_id FROM favorites WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

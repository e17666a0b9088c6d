package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/space-rental/internal/model"
)

// CategoryRepo provides read access to browse categories.
type CategoryRepo struct{ db *sql.DB }

// NewCategoryRepo returns a new CategoryRepo bound to the given database.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, slug, description, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cats := make([]model.Category, 0)
	for rows.Next() {
		var (
			c    model.Category
			desc sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &desc, &c.CreatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			c.Description = &d
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetBySlug fetches a category by its slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (model.Category, error) {
	var (
		c    model.Category
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, slug, description, created_at FROM categories WHERE slug=? LIMIT 1", slug).
		Scan(&c.ID, &c.Name, &c.Slug, &desc, &c.CreatedAt)
	if err != nil {
		return model.Category{}, err
	}
	if desc.Valid {
		d := desc.String
		c.Description = &d
	}
	return c, nil
}

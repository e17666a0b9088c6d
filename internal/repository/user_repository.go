package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/space-rental/internal/model"
	"github.com/iliyamo/space-rental/internal/utils"
)

// UserRepo provides access to the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,email,password_hash,role,full_name,phone,company_name,is_active,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u       model.User
		role    string
		phone   sql.NullString
		company sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.FullName,
		&phone, &company, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}
	if company.Valid {
		cn := company.String
		u.CompanyName = &cn
	}
	return u, nil
}

// Create inserts a user and returns its ID.  The password is bcrypt
// hashed with the given cost before storage.  Duplicate emails map to
// ErrEmailExists via the MySQL 1062 duplicate-key error.
func (r *UserRepo) Create(ctx context.Context, email, password string, role model.Role, fullName string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, full_name) VALUES (?,?,?,?)",
		email, hash, string(role), fullName)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile updates the mutable profile fields of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName string, phone, company *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, phone=?, company_name=? WHERE id=?",
		fullName, phone, company, id)
	return err
}

// List returns users for the admin panel, optionally filtered by role,
// newest first.
func (r *UserRepo) List(ctx context.Context, role model.Role, limit, offset int) ([]model.User, error) {
	q := "SELECT " + userColumns + " FROM users"
	args := []interface{}{}
	if role != "" {
		q += " WHERE role=?"
		args = append(args, string(role))
	}
	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var (
			u       model.User
			roleStr string
			phone   sql.NullString
			company sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &roleStr, &u.FullName,
			&phone, &company, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Role = model.Role(roleStr)
		if phone.Valid {
			p := phone.String
			u.Phone = &p
		}
		if company.Valid {
			cn := company.String
			u.CompanyName = &cn
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetActive flips the is_active flag; suspended users cannot sign in.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET is_active=? WHERE id=?", active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// either missing or already in the requested state; disambiguate
		var exists uint64
		if err := r.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE id=? LIMIT 1", id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

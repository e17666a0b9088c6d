package model

import "time"

// Role is the typed account role.  The platform knows three kinds of
// users: tenants who book spaces, landlords who list them and admins who
// moderate everything.  Authorization decisions go through capability
// checks rather than string comparisons on the raw role value.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// Capability names a permission a role may hold.  Handlers and
// middleware gate on capabilities so that adding a role never requires
// touching every permission check.
type Capability uint8

const (
	// CapViewOwnBookings allows creating and managing one's own bookings.
	CapViewOwnBookings Capability = iota
	// CapManageOwnProperties allows listing spaces and driving the
	// lifecycle of bookings made against them.
	CapManageOwnProperties
	// CapModerateAll allows moderating users, properties, bookings and
	// reviews platform-wide.
	CapModerateAll
)

// capabilities maps each role to the set of capabilities it holds.
// Admins hold every capability.
var capabilities = map[Role]map[Capability]bool{
	RoleTenant: {
		CapViewOwnBookings: true,
	},
	RoleLandlord: {
		CapManageOwnProperties: true,
	},
	RoleAdmin: {
		CapViewOwnBookings:     true,
		CapManageOwnProperties: true,
		CapModerateAll:         true,
	},
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// ParseRole normalizes a raw role string into a Role.  The second return
// value is false for unknown roles.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if r.Valid() {
		return r, true
	}
	return "", false
}

// User mirrors the `users` table.  Repositories scan rows into this
// struct; handlers expose separate response types with JSON tags.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (tenant, landlord, admin).
//  FullName     – display name, may be empty.
//  Phone        – contact phone, nullable.
//  CompanyName  – landlord company name, nullable.
//  IsActive     – whether the account may sign in; admins can suspend.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	FullName     string    // users.full_name
	Phone        *string   // users.phone (nullable)
	CompanyName  *string   // users.company_name (nullable)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

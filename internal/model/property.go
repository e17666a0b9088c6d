package model

import (
	"time"

	"github.com/iliyamo/space-rental/internal/booking"
)

// PropertyStatus tracks a listing through moderation.  Landlords draft a
// listing, submit it for moderation (pending) and admins either approve
// it (active) or reject/retire it (inactive).  Only active properties
// are bookable or publicly visible.
type PropertyStatus string

const (
	PropertyDraft    PropertyStatus = "draft"
	PropertyPending  PropertyStatus = "pending"
	PropertyActive   PropertyStatus = "active"
	PropertyInactive PropertyStatus = "inactive"
)

// Valid reports whether s is a known property status.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyDraft, PropertyPending, PropertyActive, PropertyInactive:
		return true
	}
	return false
}

// PropertyType categorizes the kind of commercial space being let.
type PropertyType string

const (
	TypeOffice     PropertyType = "office"
	TypeConference PropertyType = "conference"
	TypeCoworking  PropertyType = "coworking"
	TypeShop       PropertyType = "shop"
	TypeWarehouse  PropertyType = "warehouse"
	TypeStudio     PropertyType = "studio"
	TypeOther      PropertyType = "other"
)

// Valid reports whether t is a known property type.
func (t PropertyType) Valid() bool {
	switch t {
	case TypeOffice, TypeConference, TypeCoworking, TypeShop, TypeWarehouse, TypeStudio, TypeOther:
		return true
	}
	return false
}

// Property mirrors the `properties` table.  Prices live in integer
// cents; the hourly rate is mandatory and the remaining tiers are
// nullable, falling back through booking.RateTable when unset.
//
// Fields:
//  ID          – primary key identifier.
//  LandlordID  – owner of the listing.
//  Title       – listing headline.
//  Slug        – unique URL slug (uuid-suffixed at creation).
//  Description – free-form description.
//  Type        – kind of space (office, shop, ...).
//  CategoryID  – optional browse category.
//  City        – city the space is in.
//  Address     – street address.
//  HourCents   – price per hour, required.
//  DayCents    – price per day, nullable.
//  WeekCents   – price per week, nullable.
//  MonthCents  – price per month, nullable.
//  Capacity    – maximum guest count, positive.
//  AreaSqM     – floor area in square meters, hundredths.
//  Status      – moderation status.
//  ViewsCount  – detail page view counter.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Property struct {
	ID          uint64         // properties.id
	LandlordID  uint64         // properties.landlord_id
	Title       string         // properties.title
	Slug        string         // properties.slug
	Description string         // properties.description
	Type        PropertyType   // properties.property_type
	CategoryID  *uint64        // properties.category_id (nullable)
	City        string         // properties.city
	Address     string         // properties.address
	HourCents   int64          // properties.hour_cents
	DayCents    *int64         // properties.day_cents (nullable)
	WeekCents   *int64         // properties.week_cents (nullable)
	MonthCents  *int64         // properties.month_cents (nullable)
	Capacity    uint32         // properties.capacity
	AreaSqM     int64          // properties.area_sq_m_hundredths
	Status      PropertyStatus // properties.status
	ViewsCount  uint64         // properties.views_count
	CreatedAt   time.Time      // properties.created_at
	UpdatedAt   time.Time      // properties.updated_at
}

// Rates assembles the property's tiered rate table for pricing.
func (p *Property) Rates() booking.RateTable {
	return booking.RateTable{
		HourCents:  p.HourCents,
		DayCents:   p.DayCents,
		WeekCents:  p.WeekCents,
		MonthCents: p.MonthCents,
	}
}

// Category is a browse category for listings (e.g. "Event spaces").
type Category struct {
	ID          uint64    // categories.id
	Name        string    // categories.name
	Slug        string    // categories.slug
	Description *string   // categories.description (nullable)
	CreatedAt   time.Time // categories.created_at
}

// Amenity is a filterable feature a property can offer (e.g. "WiFi",
// "Parking").  Properties link to amenities through a join table.
type Amenity struct {
	ID        uint64    // amenities.id
	Name      string    // amenities.name
	Slug      string    // amenities.slug
	Icon      *string   // amenities.icon (nullable)
	CreatedAt time.Time // amenities.created_at
}

// Favorite marks a property saved by a user.  One row per (user,
// property) pair.
type Favorite struct {
	ID         uint64    // favorites.id
	UserID     uint64    // favorites.user_id
	PropertyID uint64    // favorites.property_id
	CreatedAt  time.Time // favorites.created_at
}

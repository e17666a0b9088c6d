package model

import "time"

// ReviewStatus tracks a review through moderation.  New reviews start as
// pending and only approved ones are shown publicly.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// Review mirrors the `reviews` table.  A user may review a property at
// most once (unique key on property_id + user_id).  When the review was
// written off the back of a completed booking, BookingID links to it and
// IsVerified is set.
//
// Fields:
//  ID           – primary key identifier.
//  PropertyID   – property being reviewed.
//  UserID       – author.
//  BookingID    – completed booking the review stems from, nullable.
//  Rating       – 1 to 5 inclusive.
//  Comment      – review body.
//  Status       – moderation status.
//  AdminComment – moderator note, nullable.
//  IsVerified   – true when tied to a completed booking.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Review struct {
	ID           uint64       // reviews.id
	PropertyID   uint64       // reviews.property_id
	UserID       uint64       // reviews.user_id
	BookingID    *uint64      // reviews.booking_id (nullable)
	Rating       uint8        // reviews.rating
	Comment      string       // reviews.comment
	Status       ReviewStatus // reviews.status
	AdminComment *string      // reviews.admin_comment (nullable)
	IsVerified   bool         // reviews.is_verified
	CreatedAt    time.Time    // reviews.created_at
	UpdatedAt    time.Time    // reviews.updated_at
}

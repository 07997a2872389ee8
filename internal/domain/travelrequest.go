// Package domain contains the core data types for the Travel Desk API.
// This package has zero dependencies on the other internal packages and is
// imported by every one of them (repo, service, handler, notify).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is the minute-precision layout used everywhere a travel
// request timestamp crosses the boundary (API responses, exports, emails).
const TimestampFormat = "2006-01-02 15:04"

// TravelRequest is the sole aggregate: one corporate travel request moving
// through the requested → approved/canceled workflow.
type TravelRequest struct {
	// ID is the internal sequential key. Never serialized.
	ID int64 `json:"-"`

	// PublicID is the externally visible identity, used for lookup and
	// routing. Immutable after creation.
	PublicID uuid.UUID `json:"identify"`

	// OwnerID is the opaque token of the user who created the request.
	// The core only ever compares it for equality. Immutable.
	OwnerID string `json:"user_code"`

	// OrderCode is the caller-supplied reference key. Unique among
	// non-deleted requests; immutable.
	OrderCode string `json:"order_code"`

	RequestorName string `json:"requestor_name"`
	Destination   string `json:"destination"`

	// DepartureAt and ReturnAt are minute-precision timestamps.
	// ReturnAt >= DepartureAt holds from creation onward; both are
	// immutable after creation.
	DepartureAt time.Time `json:"departure_date"`
	ReturnAt    time.Time `json:"return_date"`

	// Status transitions only through the transition engine.
	Status Status `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// DeletedAt marks the record soft-deleted when non-nil. Soft-deleted
	// records are invisible to all normal reads but stay in storage.
	DeletedAt *time.Time `json:"-"`
}

// Deleted reports whether the record has been soft-deleted.
func (tr TravelRequest) Deleted() bool {
	return tr.DeletedAt != nil
}

// ListFilter carries the optional, composable listing filters.
// All zero-valued fields are ignored.
type ListFilter struct {
	// Status restricts to an exact status match.
	Status *Status

	// Destination restricts to a case-insensitive substring match.
	Destination string

	// StartDate and EndDate bound an inclusive date window (date portion
	// only). Each bound applies independently: a request passes StartDate
	// when departure or return is on/after it, and EndDate when departure
	// or return is on/before it. A trip spanning the whole window matches
	// even though neither date falls inside it.
	StartDate *time.Time
	EndDate   *time.Time
}

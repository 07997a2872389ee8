package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusChange is the event emitted after a status transition commits.
// It carries everything the notification dispatcher needs to render a
// message without reading the request back from storage.
type StatusChange struct {
	RecipientID   string    `json:"recipient_id"`
	PublicID      uuid.UUID `json:"identify"`
	OrderCode     string    `json:"order_code"`
	RequestorName string    `json:"requestor_name"`
	Destination   string    `json:"destination"`
	DepartureAt   time.Time `json:"departure_date"`
	ReturnAt      time.Time `json:"return_date"`
	NewStatus     Status    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewStatusChange builds the event for a request that has just moved to its
// current Status. The owner is always the recipient.
func NewStatusChange(tr TravelRequest) StatusChange {
	return StatusChange{
		RecipientID:   tr.OwnerID,
		PublicID:      tr.PublicID,
		OrderCode:     tr.OrderCode,
		RequestorName: tr.RequestorName,
		Destination:   tr.Destination,
		DepartureAt:   tr.DepartureAt,
		ReturnAt:      tr.ReturnAt,
		NewStatus:     tr.Status,
		OccurredAt:    time.Now().UTC(),
	}
}

package messaging

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	BookingCreated   EventType = "created"
	BookingUpdated   EventType = "updated"
	BookingDeleted   EventType = "deleted"
	BookingPaid      EventType = "paid"
	BookingConfirmed EventType = "confirmed"
	BookingReleased  EventType = "released"
)

// BookingEvent is the message body published for every booking mutation.
type BookingEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          EventType `json:"type"`
	BookingID     uuid.UUID `json:"booking_id"`
	Reference     string    `json:"reference"`
	PackageID     uuid.UUID `json:"package_id"`
	BookingType   string    `json:"booking_type"`
	ReservedUntil *string   `json:"reserved_until,omitempty"`
	PaxTotal      int       `json:"pax_total"`
	TotalPrice    float64   `json:"total_price"`
	PaidAmount    float64   `json:"paid_amount"`
	PaymentStatus string    `json:"payment_status"`
	Timestamp     time.Time `json:"timestamp"`
}

func (e BookingEvent) RoutingKey() string {
	return "booking." + string(e.Type)
}

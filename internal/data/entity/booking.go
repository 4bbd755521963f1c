package entity

import (
	"github.com/google/uuid"
)

type BookingType string

const (
	BookingTypeOption    BookingType = "En option"
	BookingTypeConfirmed BookingType = "Confirmée"
)

type BookingStatus string

const (
	BookingStatusActive   BookingStatus = "active"
	BookingStatusReleased BookingStatus = "released"
)

type PaxCategory string

const (
	PaxAdult  PaxCategory = "ADL"
	PaxChild  PaxCategory = "CHD"
	PaxInfant PaxCategory = "INF"
)

type Booking struct {
	Base
	Reference     string        `db:"reference"`
	PackageID     uuid.UUID     `db:"package_id"`
	BookingType   BookingType   `db:"booking_type"`
	ReservedUntil *string       `db:"reserved_until"`
	Status        BookingStatus `db:"status"`
	Rooms         []BookingRoom `db:"rooms"`
	PaxTotal      int           `db:"pax_total"`
	Uploads       []string      `db:"uploads"`
	Payment       PaymentInfo   `db:"payment"`
}

type BookingRoom struct {
	RoomType  string         `json:"room_type"`
	Occupants []RoomOccupant `json:"occupants"`
}

type RoomOccupant struct {
	Type PaxCategory `json:"type"`
	Name *string     `json:"name,omitempty"`
}

type PaymentInfo struct {
	PaymentMethod string  `json:"payment_method"`
	TotalPrice    float64 `json:"total_price"`
	PaidAmount    float64 `json:"paid_amount"`
	IsFullyPaid   bool    `json:"is_fully_paid"`
}

func (b *Booking) IsOption() bool {
	return b.BookingType == BookingTypeOption
}

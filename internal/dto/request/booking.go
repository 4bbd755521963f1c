package request

import (
	"travel-backoffice/internal/data/entity"
)

// BookingDraft is everything the booking wizard collects, submitted in one
// piece and validated once.
type BookingDraft struct {
	PackageID   string         `json:"package_id" validate:"required,uuid"`
	BookingType string         `json:"booking_type" validate:"required,oneof='En option' 'Confirmée'"`
	Rooms       []RoomRequest  `json:"rooms" validate:"required,min=1,dive"`
	Uploads     []string       `json:"uploads,omitempty"`
	Payment     PaymentRequest `json:"payment"`
}

type RoomRequest struct {
	RoomType  string            `json:"room_type" validate:"required,max=100"`
	Occupants []OccupantRequest `json:"occupants" validate:"required,min=1,dive"`
}

type OccupantRequest struct {
	Type string  `json:"type" validate:"required,oneof=ADL CHD INF"`
	Name *string `json:"name,omitempty" validate:"omitempty,max=200"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"max=100"`
	// TotalPrice overrides the computed total when set.
	TotalPrice *float64 `json:"total_price,omitempty" validate:"omitempty,gte=0"`
	PaidAmount float64  `json:"paid_amount" validate:"gte=0"`
}

// QuoteRequest prices a draft without saving it. BookingID excludes an
// existing booking from the stock count while it is being edited.
type QuoteRequest struct {
	BookingDraft
	BookingID string `json:"booking_id,omitempty" validate:"omitempty,uuid"`
}

type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"max=100"`
}

func (d *BookingDraft) ToRooms() []entity.BookingRoom {
	rooms := make([]entity.BookingRoom, len(d.Rooms))
	for i, room := range d.Rooms {
		occupants := make([]entity.RoomOccupant, len(room.Occupants))
		for j, occ := range room.Occupants {
			occupants[j] = entity.RoomOccupant{
				Type: entity.PaxCategory(occ.Type),
				Name: occ.Name,
			}
		}
		rooms[i] = entity.BookingRoom{RoomType: room.RoomType, Occupants: occupants}
	}
	return rooms
}

package response

import (
	"time"

	"travel-backoffice/internal/data/entity"
	"travel-backoffice/internal/engine"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	Reference     string               `json:"reference"`
	PackageID     string               `json:"package_id"`
	PackageName   string               `json:"package_name,omitempty"`
	BookingType   entity.BookingType   `json:"booking_type"`
	ReservedUntil *string              `json:"reserved_until,omitempty"`
	Status        entity.BookingStatus `json:"status"`
	Rooms         []entity.BookingRoom `json:"rooms"`
	PaxTotal      int                  `json:"pax_total"`
	Uploads       []string             `json:"uploads"`
	Payment       PaymentResponse      `json:"payment"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type PaymentResponse struct {
	entity.PaymentInfo
	Status      engine.PaymentStatus `json:"status"`
	StatusLabel string               `json:"status_label"`
	Balance     float64              `json:"balance"`
}

// QuoteResponse is the live summary shown while a booking is drafted.
type QuoteResponse struct {
	engine.Totals
	PaxTotal        int             `json:"pax_total"`
	RemainingStock  int             `json:"remaining_stock"`
	StockSufficient bool            `json:"stock_sufficient"`
	ReservedUntil   *string         `json:"reserved_until,omitempty"`
	Payment         PaymentResponse `json:"payment"`
}

func PaymentToResponse(p entity.PaymentInfo) PaymentResponse {
	status := engine.ResolvePaymentStatus(p)
	return PaymentResponse{
		PaymentInfo: p,
		Status:      status,
		StatusLabel: status.Label(),
		Balance:     p.TotalPrice - p.PaidAmount,
	}
}

func BookingToResponse(b *entity.Booking, packageName string) BookingResponse {
	rooms := b.Rooms
	if rooms == nil {
		rooms = []entity.BookingRoom{}
	}
	uploads := b.Uploads
	if uploads == nil {
		uploads = []string{}
	}

	return BookingResponse{
		ID:            b.ID.String(),
		Reference:     b.Reference,
		PackageID:     b.PackageID.String(),
		PackageName:   packageName,
		BookingType:   b.BookingType,
		ReservedUntil: b.ReservedUntil,
		Status:        b.Status,
		Rooms:         rooms,
		PaxTotal:      b.PaxTotal,
		Uploads:       uploads,
		Payment:       PaymentToResponse(b.Payment),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

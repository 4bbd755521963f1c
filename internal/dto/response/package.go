package response

import (
	"time"

	"travel-backoffice/internal/data/entity"
)

type PackageResponse struct {
	ID             string                `json:"id"`
	Status         entity.PackageStatus  `json:"status"`
	General        entity.GeneralInfo    `json:"general"`
	Flights        entity.FlightInfo     `json:"flights"`
	Pricing        []entity.PricingEntry `json:"pricing"`
	MinPrice       float64               `json:"min_price"`
	RemainingStock int                   `json:"remaining_stock"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

type AvailabilityResponse struct {
	PackageID         string `json:"package_id"`
	Stock             int    `json:"stock"`
	BookedPax         int    `json:"booked_pax"`
	RemainingStock    int    `json:"remaining_stock"`
	OptionHoldUntil   string `json:"option_hold_until"`
	EarliestDeparture string `json:"earliest_departure,omitempty"`
}

func PackageToResponse(pkg *entity.TravelPackage, minPrice float64, remaining int) PackageResponse {
	pricing := pkg.Pricing
	if pricing == nil {
		pricing = []entity.PricingEntry{}
	}

	return PackageResponse{
		ID:             pkg.ID.String(),
		Status:         pkg.Status,
		General:        pkg.General,
		Flights:        pkg.Flights,
		Pricing:        pricing,
		MinPrice:       minPrice,
		RemainingStock: remaining,
		CreatedAt:      pkg.CreatedAt,
		UpdatedAt:      pkg.UpdatedAt,
	}
}

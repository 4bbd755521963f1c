package request

import (
	"travel-backoffice/internal/data/entity"
)

type PackageRequest struct {
	General GeneralInfoRequest    `json:"general" validate:"required"`
	Flights FlightInfoRequest     `json:"flights"`
	Pricing []PricingEntryRequest `json:"pricing" validate:"dive"`
}

type GeneralInfoRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Code        string `json:"code" validate:"required,min=1,max=50"`
	Responsible string `json:"responsible" validate:"max=100"`
	Stock       int    `json:"stock" validate:"gte=0"`
}

type FlightInfoRequest struct {
	Destination string             `json:"destination" validate:"max=200"`
	Legs        []FlightLegRequest `json:"legs" validate:"dive"`
}

type FlightLegRequest struct {
	FlightNumber  string `json:"flight_number,omitempty"`
	From          string `json:"from,omitempty"`
	To            string `json:"to,omitempty"`
	DepartureDate string `json:"departure_date" validate:"omitempty,datetime=2006-01-02"`
}

type PricingEntryRequest struct {
	Label      string  `json:"label" validate:"required,max=100"`
	Category   string  `json:"category,omitempty" validate:"omitempty,oneof=ADL CHD INF"`
	UnitPrice  float64 `json:"unit_price" validate:"gte=0"`
	Commission float64 `json:"commission" validate:"gte=0"`
}

// Apply copies the request onto a package, leaving identity and status alone.
func (r *PackageRequest) Apply(pkg *entity.TravelPackage) {
	pkg.General.Name = r.General.Name
	pkg.General.Code = r.General.Code
	pkg.General.Responsible = r.General.Responsible
	pkg.General.Stock = r.General.Stock

	pkg.Flights = entity.FlightInfo{
		Destination: r.Flights.Destination,
		Legs:        make([]entity.FlightLeg, len(r.Flights.Legs)),
	}
	for i, leg := range r.Flights.Legs {
		pkg.Flights.Legs[i] = entity.FlightLeg(leg)
	}

	pkg.Pricing = make([]entity.PricingEntry, len(r.Pricing))
	for i, p := range r.Pricing {
		pkg.Pricing[i] = entity.PricingEntry{
			Label:      p.Label,
			Category:   entity.PaxCategory(p.Category),
			UnitPrice:  p.UnitPrice,
			Commission: p.Commission,
		}
	}
}

package entity

import (
	"time"
)

type PackageStatus string

const (
	PackageStatusDraft     PackageStatus = "draft"
	PackageStatusPublished PackageStatus = "published"
)

type TravelPackage struct {
	Base
	Status  PackageStatus  `db:"status"`
	General GeneralInfo    `db:"general"`
	Flights FlightInfo     `db:"flights"`
	Pricing []PricingEntry `db:"pricing"`
}

type GeneralInfo struct {
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Responsible string    `json:"responsible"`
	CreatedAt   time.Time `json:"created_at"`
	Stock       int       `json:"stock"`
}

type FlightInfo struct {
	Destination string      `json:"destination"`
	Legs        []FlightLeg `json:"legs"`
}

type FlightLeg struct {
	FlightNumber  string `json:"flight_number,omitempty"`
	From          string `json:"from,omitempty"`
	To            string `json:"to,omitempty"`
	DepartureDate string `json:"departure_date"`
}

// PricingEntry is one priced line of a package. Category is optional; an
// untagged entry only takes part in the package-wide minimum price.
type PricingEntry struct {
	Label      string      `json:"label"`
	Category   PaxCategory `json:"category,omitempty"`
	UnitPrice  float64     `json:"unit_price"`
	Commission float64     `json:"commission"`
}

func (p *TravelPackage) IsPublished() bool {
	return p.Status == PackageStatusPublished
}

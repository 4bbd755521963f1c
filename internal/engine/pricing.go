// Package engine holds the booking computations shared by the quote, create
// and update flows: pricing, stock, option holds and payment status. Every
// function is pure and total; out-of-range input yields defaults, not errors.
package engine

import (
	"travel-backoffice/internal/data/entity"
)

type PaxCount struct {
	ADL int `json:"ADL"`
	CHD int `json:"CHD"`
	INF int `json:"INF"`
}

// Total counts only the recognized categories.
func (p PaxCount) Total() int {
	return p.ADL + p.CHD + p.INF
}

type UnitPricing struct {
	AdultUnit  float64 `json:"adult_unit"`
	ChildUnit  float64 `json:"child_unit"`
	InfantUnit float64 `json:"infant_unit"`
}

type Totals struct {
	Pax             PaxCount    `json:"pax"`
	Pricing         UnitPricing `json:"pricing"`
	Total           float64     `json:"total"`
	CommissionTotal float64     `json:"commission_total"`
}

// ComputeTotals prices a rooming list against a package.
func ComputeTotals(pkg *entity.TravelPackage, rooms []entity.BookingRoom) Totals {
	pax := CountPax(rooms)

	var pricing []entity.PricingEntry
	if pkg != nil {
		pricing = pkg.Pricing
	}

	units := ResolveUnitPricing(pricing)
	total := float64(pax.ADL)*units.AdultUnit +
		float64(pax.CHD)*units.ChildUnit +
		float64(pax.INF)*units.InfantUnit

	return Totals{
		Pax:             pax,
		Pricing:         units,
		Total:           total,
		CommissionTotal: AverageCommission(pricing),
	}
}

// CountPax counts occupants by category. Unknown types are skipped.
func CountPax(rooms []entity.BookingRoom) PaxCount {
	var pax PaxCount
	for _, room := range rooms {
		for _, occ := range room.Occupants {
			switch occ.Type {
			case entity.PaxAdult:
				pax.ADL++
			case entity.PaxChild:
				pax.CHD++
			case entity.PaxInfant:
				pax.INF++
			}
		}
	}
	return pax
}

// CountOccupants is the booking's paxTotal: every occupant of every room.
func CountOccupants(rooms []entity.BookingRoom) int {
	n := 0
	for _, room := range rooms {
		n += len(room.Occupants)
	}
	return n
}

// ResolveUnitPricing picks one rate per category: the lowest positive price
// tagged with that category, else the package-wide minimum positive price.
func ResolveUnitPricing(pricing []entity.PricingEntry) UnitPricing {
	fallback := MinPrice(pricing)
	return UnitPricing{
		AdultUnit:  categoryPrice(pricing, entity.PaxAdult, fallback),
		ChildUnit:  categoryPrice(pricing, entity.PaxChild, fallback),
		InfantUnit: categoryPrice(pricing, entity.PaxInfant, fallback),
	}
}

func categoryPrice(pricing []entity.PricingEntry, cat entity.PaxCategory, fallback float64) float64 {
	best := 0.0
	for _, p := range pricing {
		if p.Category != cat || p.UnitPrice <= 0 {
			continue
		}
		if best == 0 || p.UnitPrice < best {
			best = p.UnitPrice
		}
	}
	if best == 0 {
		return fallback
	}
	return best
}

// MinPrice is the lowest positive unit price of the list, 0 when none.
func MinPrice(pricing []entity.PricingEntry) float64 {
	lowest := 0.0
	for _, p := range pricing {
		if p.UnitPrice <= 0 {
			continue
		}
		if lowest == 0 || p.UnitPrice < lowest {
			lowest = p.UnitPrice
		}
	}
	return lowest
}

// AverageCommission is the unweighted mean commission of all entries.
func AverageCommission(pricing []entity.PricingEntry) float64 {
	if len(pricing) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range pricing {
		sum += p.Commission
	}
	return sum / float64(len(pricing))
}

package engine

import (
	"sort"
	"time"

	"travel-backoffice/internal/data/entity"
)

const (
	// LowStockThreshold is the remaining stock at or below which the short hold applies.
	LowStockThreshold = 5
	ShortHoldDays     = 2
	StandardHoldDays  = 5
	// DefaultLeadDays stands in for a departure when the package has none.
	DefaultLeadDays = 7
)

// ComputeReservedUntil returns the YYYY-MM-DD date by which an option booking
// must be confirmed. It is never earlier than the day after now.
func ComputeReservedUntil(pkg *entity.TravelPackage, remainingStock int, now time.Time) string {
	today := truncateDay(now)

	base := today.AddDate(0, 0, DefaultLeadDays)
	if departures := DepartureDates(pkg); len(departures) > 0 {
		base = departures[0]
	}

	holdDays := StandardHoldDays
	if remainingStock <= LowStockThreshold {
		holdDays = ShortHoldDays
	}

	until := base.AddDate(0, 0, -holdDays)
	if until.Before(today) {
		until = today.AddDate(0, 0, 1)
	}

	return until.Format(entity.DateLayout)
}

// DepartureDates returns the parseable departure dates of all legs, ascending.
func DepartureDates(pkg *entity.TravelPackage) []time.Time {
	if pkg == nil {
		return nil
	}

	var dates []time.Time
	for _, leg := range pkg.Flights.Legs {
		if leg.DepartureDate == "" {
			continue
		}
		d, err := time.Parse(entity.DateLayout, leg.DepartureDate)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// IsHoldExpired reports whether a hold date lies strictly before now's calendar day.
// Unparseable dates are treated as not expired.
func IsHoldExpired(reservedUntil string, now time.Time) bool {
	d, err := time.Parse(entity.DateLayout, reservedUntil)
	if err != nil {
		return false
	}
	return d.Before(truncateDay(now))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

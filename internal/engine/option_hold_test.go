package engine

import (
	"testing"
	"time"

	"travel-backoffice/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

var holdNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func packageDeparting(dates ...string) *entity.TravelPackage {
	legs := make([]entity.FlightLeg, len(dates))
	for i, d := range dates {
		legs[i] = entity.FlightLeg{DepartureDate: d}
	}
	return &entity.TravelPackage{Flights: entity.FlightInfo{Destination: "Istanbul", Legs: legs}}
}

func day(offset int) string {
	return holdNow.AddDate(0, 0, offset).Format(entity.DateLayout)
}

func TestComputeReservedUntil(t *testing.T) {
	tests := []struct {
		name      string
		pkg       *entity.TravelPackage
		remaining int
		want      string
	}{
		{"low stock short hold", packageDeparting(day(10)), 3, day(8)},
		{"threshold is inclusive", packageDeparting(day(10)), 5, day(8)},
		{"standard hold", packageDeparting(day(10)), 6, day(5)},
		{"clamps to tomorrow", packageDeparting(day(3)), 20, day(1)},
		{"earliest departure wins", packageDeparting(day(30), "", day(12), "bad-date"), 20, day(7)},
		{"no departures uses seven day lead", packageDeparting(), 20, day(2)},
		{"no departures low stock", packageDeparting(""), 2, day(5)},
		{"nil package", nil, 10, day(2)},
		{"negative stock counts as low", packageDeparting(day(10)), -4, day(8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeReservedUntil(tt.pkg, tt.remaining, holdNow)
			assert.Equal(t, tt.want, got)

			_, err := time.Parse(entity.DateLayout, got)
			assert.NoError(t, err)
		})
	}
}

func TestComputeReservedUntil_NeverInPast(t *testing.T) {
	past := packageDeparting(day(-40))
	assert.Equal(t, day(1), ComputeReservedUntil(past, 1, holdNow))
}

func TestIsHoldExpired(t *testing.T) {
	assert.True(t, IsHoldExpired(day(-1), holdNow))
	assert.False(t, IsHoldExpired(day(0), holdNow))
	assert.False(t, IsHoldExpired(day(2), holdNow))
	assert.False(t, IsHoldExpired("", holdNow))
}

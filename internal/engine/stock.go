package engine

import (
	"travel-backoffice/internal/data/entity"

	"github.com/google/uuid"
)

// RemainingStock is the package stock minus the pax of its bookings, skipping
// excludeID (uuid.Nil skips nothing). The result is not clamped and goes
// negative when the package is overbooked.
func RemainingStock(pkg *entity.TravelPackage, bookings []*entity.Booking, excludeID uuid.UUID) int {
	if pkg == nil {
		return 0
	}

	remaining := pkg.General.Stock
	for _, b := range bookings {
		if b == nil || b.PackageID != pkg.ID {
			continue
		}
		if excludeID != uuid.Nil && b.ID == excludeID {
			continue
		}
		remaining -= b.PaxTotal
	}
	return remaining
}

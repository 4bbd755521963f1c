package repository

import (
	"errors"

	"travel-backoffice/pkg/database"

	"go.uber.org/zap"
)

// ErrNotFound is returned by writes that matched no row. Reads return (nil, nil) instead.
var ErrNotFound = errors.New("not found")

// ErrStale is returned by guarded writes when the row no longer matches the
// state it was read in.
var ErrStale = errors.New("row changed since it was read")

type Repository struct {
	Package PackageRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Package: NewPackageRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}

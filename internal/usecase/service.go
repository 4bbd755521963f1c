package usecase

import (
	"time"

	"travel-backoffice/internal/data/repository"
	"travel-backoffice/pkg/cache"
	"travel-backoffice/pkg/messaging"

	"go.uber.org/zap"
)

// Clock returns the current time; tests pin it.
type Clock func() time.Time

type Service struct {
	Package PackageService
	Booking BookingService
}

func NewService(
	repo *repository.Repository,
	c cache.Cache,
	publisher messaging.Publisher,
	clock Clock,
	log *zap.Logger,
) *Service {
	if clock == nil {
		clock = time.Now
	}

	store := &packageStore{
		repo:  repo.Package,
		cache: c,
		log:   log.With(zap.String("component", "package_store")),
	}

	return &Service{
		Package: NewPackageService(repo, store, clock, log),
		Booking: NewBookingService(repo, store, publisher, clock, log),
	}
}

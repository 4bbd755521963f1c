package usecase

import (
	"context"
	"fmt"

	"travel-backoffice/internal/data/entity"
	"travel-backoffice/internal/data/repository"
	"travel-backoffice/internal/dto/request"
	"travel-backoffice/internal/dto/response"
	"travel-backoffice/internal/engine"
	"travel-backoffice/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PackageService interface {
	GetPackages(ctx context.Context, req *request.PaginatedRequest, status *string) (*response.PaginatedResponse[response.PackageResponse], error)
	GetPackageByID(ctx context.Context, packageID string) (*response.PackageResponse, error)
	GetAvailability(ctx context.Context, packageID string) (*response.AvailabilityResponse, error)
	CreatePackage(ctx context.Context, req *request.PackageRequest) (*response.PackageResponse, error)
	UpdatePackage(ctx context.Context, packageID string, req *request.PackageRequest) (*response.PackageResponse, error)
	PublishPackage(ctx context.Context, packageID string) (*response.PackageResponse, error)
	DeletePackage(ctx context.Context, packageID string) error
}

type packageService struct {
	repo  *repository.Repository
	store *packageStore
	now   Clock
	log   *zap.Logger
}

func NewPackageService(repo *repository.Repository, store *packageStore, clock Clock, log *zap.Logger) PackageService {
	return &packageService{
		repo:  repo,
		store: store,
		now:   clock,
		log:   log.With(zap.String("service", "package")),
	}
}

func (s *packageService) GetPackages(ctx context.Context, req *request.PaginatedRequest, status *string) (*response.PaginatedResponse[response.PackageResponse], error) {
	packages, err := s.repo.Package.FindAll(ctx, req.Limit(), req.Offset(), status)
	if err != nil {
		s.log.Error("Failed to get packages",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
			zap.Stringp("status", status),
		)
		return nil, fmt.Errorf("get packages: %w", err)
	}

	total, err := s.repo.Package.CountAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("count packages: %w", err)
	}

	items := make([]response.PackageResponse, len(packages))
	for i, pkg := range packages {
		resp, err := s.toResponse(ctx, pkg)
		if err != nil {
			return nil, err
		}
		items[i] = *resp
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *packageService) GetPackageByID(ctx context.Context, packageID string) (*response.PackageResponse, error) {
	pkg, err := s.find(ctx, packageID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, pkg)
}

func (s *packageService) GetAvailability(ctx context.Context, packageID string) (*response.AvailabilityResponse, error) {
	pkg, err := s.find(ctx, packageID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.FindActiveByPackageID(ctx, pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("get bookings for package %s: %w", packageID, err)
	}

	remaining := engine.RemainingStock(pkg, bookings, uuid.Nil)
	resp := &response.AvailabilityResponse{
		PackageID:       pkg.ID.String(),
		Stock:           pkg.General.Stock,
		BookedPax:       pkg.General.Stock - remaining,
		RemainingStock:  remaining,
		OptionHoldUntil: engine.ComputeReservedUntil(pkg, remaining, s.now()),
	}
	if departures := engine.DepartureDates(pkg); len(departures) > 0 {
		resp.EarliestDeparture = departures[0].Format(entity.DateLayout)
	}

	return resp, nil
}

func (s *packageService) CreatePackage(ctx context.Context, req *request.PackageRequest) (*response.PackageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create package validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	now := s.now()
	pkg := &entity.TravelPackage{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Status: entity.PackageStatusDraft,
	}
	req.Apply(pkg)
	pkg.General.CreatedAt = now

	if err := s.repo.Package.Create(ctx, pkg); err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	s.log.Info("Package created",
		zap.String("package_id", pkg.ID.String()),
		zap.String("code", pkg.General.Code),
		zap.Int("stock", pkg.General.Stock),
	)

	resp := response.PackageToResponse(pkg, engine.MinPrice(pkg.Pricing), pkg.General.Stock)
	return &resp, nil
}

func (s *packageService) UpdatePackage(ctx context.Context, packageID string, req *request.PackageRequest) (*response.PackageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update package validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	pkg, err := s.findForWrite(ctx, packageID)
	if err != nil {
		return nil, err
	}

	req.Apply(pkg)
	pkg.UpdatedAt = s.now()

	s.store.invalidate(ctx, pkg.ID)
	if err := s.repo.Package.Update(ctx, pkg); err != nil {
		return nil, fmt.Errorf("update package %s: %w", packageID, err)
	}
	s.store.invalidate(ctx, pkg.ID)

	s.log.Info("Package updated", zap.String("package_id", packageID))
	return s.toResponse(ctx, pkg)
}

// PublishPackage moves a draft to published. Publishing twice is a no-op.
func (s *packageService) PublishPackage(ctx context.Context, packageID string) (*response.PackageResponse, error) {
	pkg, err := s.findForWrite(ctx, packageID)
	if err != nil {
		return nil, err
	}

	if !pkg.IsPublished() {
		if err := checkPublishable(pkg); err != nil {
			s.log.Warn("Package not publishable", zap.String("package_id", packageID), zap.Error(err))
			return nil, err
		}

		pkg.Status = entity.PackageStatusPublished
		pkg.UpdatedAt = s.now()
		s.store.invalidate(ctx, pkg.ID)
		if err := s.repo.Package.Update(ctx, pkg); err != nil {
			return nil, fmt.Errorf("publish package %s: %w", packageID, err)
		}
		s.store.invalidate(ctx, pkg.ID)

		s.log.Info("Package published", zap.String("package_id", packageID))
	}

	return s.toResponse(ctx, pkg)
}

func checkPublishable(pkg *entity.TravelPackage) error {
	switch {
	case pkg.General.Name == "":
		return fmt.Errorf("%w: package name is required to publish", ErrValidation)
	case pkg.General.Code == "":
		return fmt.Errorf("%w: package code is required to publish", ErrValidation)
	case engine.MinPrice(pkg.Pricing) <= 0:
		return fmt.Errorf("%w: at least one pricing entry with a positive unit price is required to publish", ErrValidation)
	}
	return nil
}

func (s *packageService) DeletePackage(ctx context.Context, packageID string) error {
	pkg, err := s.findForWrite(ctx, packageID)
	if err != nil {
		return err
	}

	count, err := s.repo.Booking.CountAll(ctx, &pkg.ID)
	if err != nil {
		return fmt.Errorf("count bookings for package %s: %w", packageID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: package %s still has %d bookings", ErrInvalidState, packageID, count)
	}

	if err := s.repo.Package.Delete(ctx, pkg.ID); err != nil {
		return fmt.Errorf("delete package %s: %w", packageID, err)
	}
	s.store.invalidate(ctx, pkg.ID)

	s.log.Info("Package deleted", zap.String("package_id", packageID))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *packageService) find(ctx context.Context, packageID string) (*entity.TravelPackage, error) {
	return s.lookup(ctx, packageID, s.store.get)
}

// findForWrite reads past the cache so a mutation never starts from a stale
// snapshot.
func (s *packageService) findForWrite(ctx context.Context, packageID string) (*entity.TravelPackage, error) {
	return s.lookup(ctx, packageID, s.store.load)
}

func (s *packageService) lookup(
	ctx context.Context,
	packageID string,
	read func(context.Context, uuid.UUID) (*entity.TravelPackage, error),
) (*entity.TravelPackage, error) {
	id, err := uuid.Parse(packageID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid package ID format %s", ErrValidation, packageID)
	}

	pkg, err := read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find package %s: %w", packageID, err)
	}
	if pkg == nil {
		return nil, fmt.Errorf("package %s: %w", packageID, ErrNotFound)
	}
	return pkg, nil
}

func (s *packageService) toResponse(ctx context.Context, pkg *entity.TravelPackage) (*response.PackageResponse, error) {
	bookings, err := s.repo.Booking.FindActiveByPackageID(ctx, pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("get bookings for package %s: %w", pkg.ID.String(), err)
	}

	resp := response.PackageToResponse(pkg, engine.MinPrice(pkg.Pricing), engine.RemainingStock(pkg, bookings, uuid.Nil))
	return &resp, nil
}

package usecase

import (
	"context"

	"travel-backoffice/internal/data/entity"
	"travel-backoffice/internal/data/repository"
	"travel-backoffice/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// packageStore reads packages through the cache. Cache failures only log.
// Anything that prices, stock-checks or rewrites a package uses load, never
// the cached snapshot.
type packageStore struct {
	repo  repository.PackageRepository
	cache cache.Cache
	log   *zap.Logger
}

func packageCacheKey(id uuid.UUID) string {
	return "package:" + id.String()
}

func (s *packageStore) get(ctx context.Context, id uuid.UUID) (*entity.TravelPackage, error) {
	var cached entity.TravelPackage
	hit, err := s.cache.GetJSON(ctx, packageCacheKey(id), &cached)
	if err != nil {
		s.log.Warn("Package cache read failed", zap.Error(err), zap.String("package_id", id.String()))
	}
	if hit {
		return &cached, nil
	}

	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil || pkg == nil {
		return pkg, err
	}

	// A writer may have invalidated the key since our read; never overwrite
	// whatever landed there first.
	if _, err := s.cache.AddJSON(ctx, packageCacheKey(id), pkg); err != nil {
		s.log.Warn("Package cache write failed", zap.Error(err), zap.String("package_id", id.String()))
	}
	return pkg, nil
}

// load bypasses the cache.
func (s *packageStore) load(ctx context.Context, id uuid.UUID) (*entity.TravelPackage, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *packageStore) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, packageCacheKey(id)); err != nil {
		s.log.Warn("Package cache invalidation failed", zap.Error(err), zap.String("package_id", id.String()))
	}
}

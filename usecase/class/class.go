package class

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/repository"
)

type UseCase struct {
	classes repository.ClassRepository
	cache   repository.ClassCache
	logger  *zap.Logger
}

func New(classes repository.ClassRepository, cache repository.ClassCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		classes: classes,
		cache:   cache,
		logger:  logger,
	}
}

// Create adds a new listing owned by the calling instructor. Listings start
// pending until an admin approves them.
func (uc *UseCase) Create(ctx context.Context, class *domain.Class) (*domain.Class, error) {
	if class == nil || class.Title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "class title is required")
	}
	if class.Seats <= 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "class must have at least one seat")
	}

	class.ID = uuid.NewString()
	class.Status = domain.ClassStatusPending

	created, err := uc.classes.Create(ctx, class)
	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx)
	return created, nil
}

// The cache holds exactly one page: the default first page of the public
// listing. Other page sizes and offsets go straight to storage.
const cachedPageLimit = 50

// ListApproved returns the public listing, served from cache when possible.
// A cache failure only costs the round trip to Postgres.
func (uc *UseCase) ListApproved(ctx context.Context, limit, offset int) ([]domain.Class, error) {
	cacheable := uc.cache != nil && offset == 0 && (limit <= 0 || limit == cachedPageLimit)

	if cacheable {
		if cached, err := uc.cache.Get(ctx); err == nil {
			return cached, nil
		}
	}

	classes, err := uc.classes.List(ctx, repository.ClassFilter{
		Status: domain.ClassStatusApproved,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := uc.cache.Set(ctx, classes); err != nil {
			uc.logger.Warn("class cache refresh failed", zap.Error(err))
		}
	}
	return classes, nil
}

// ListByInstructor returns an instructor's own listings regardless of status.
func (uc *UseCase) ListByInstructor(ctx context.Context, email string, limit, offset int) ([]domain.Class, error) {
	return uc.classes.List(ctx, repository.ClassFilter{
		InstructorEmail: email,
		Limit:           limit,
		Offset:          offset,
	})
}

// SetStatus approves or denies a listing.
func (uc *UseCase) SetStatus(ctx context.Context, id, status string) (*domain.Class, error) {
	if status != domain.ClassStatusApproved && status != domain.ClassStatusDenied {
		return nil, domain.NewError(domain.ErrCodeInvalid, "status must be approved or denied")
	}

	updated, err := uc.classes.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx)
	return updated, nil
}

func (uc *UseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("class cache invalidation failed", zap.Error(err))
	}
}

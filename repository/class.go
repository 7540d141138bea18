package repository

import (
	"context"

	"github.com/emagraphy/backend/domain"
)

type ClassFilter struct {
	InstructorEmail string
	Status          string
	Limit           int
	Offset          int
}

type ClassRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Class, error)
	List(ctx context.Context, filter ClassFilter) ([]domain.Class, error)
	Create(ctx context.Context, class *domain.Class) (*domain.Class, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Class, error)
	AdjustSeats(ctx context.Context, id string, delta int) error
}

// ClassCache fronts the approved-class listing with a short-lived cache.
// Writers invalidate it after every listing mutation.
type ClassCache interface {
	Get(ctx context.Context) ([]domain.Class, error)
	Set(ctx context.Context, classes []domain.Class) error
	Invalidate(ctx context.Context) error
}

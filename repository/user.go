package repository

import (
	"context"

	"github.com/emagraphy/backend/domain"
)

// UserRepository is the identity store used by registration, the access guard
// and role promotion. Point lookups only; no multi-record transactions.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

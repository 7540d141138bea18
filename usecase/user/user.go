package user

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// Register creates an identity for the email, or returns the existing one.
// Registration is idempotent by email; the second return value reports
// whether a new record was inserted.
func (uc *UseCase) Register(ctx context.Context, email, name string) (*domain.User, bool, error) {
	if email == "" {
		return nil, false, domain.NewError(domain.ErrCodeInvalid, "email is required")
	}

	existing, err := uc.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, false, err
	}

	user := &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Role:  domain.RoleStudent,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, false, err
	}

	uc.logger.Info("identity registered", zap.String("user_id", user.ID))
	return user, true, nil
}

// GetByEmail returns the identity for the email.
func (uc *UseCase) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.users.GetByEmail(ctx, email)
}

// List returns registered identities.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return uc.users.List(ctx, limit, offset)
}

// PromoteToAdmin sets the identity's role to admin.
func (uc *UseCase) PromoteToAdmin(ctx context.Context, id string) (*domain.User, error) {
	return uc.promote(ctx, id, domain.RoleAdmin)
}

// PromoteToInstructor sets the identity's role to instructor.
func (uc *UseCase) PromoteToInstructor(ctx context.Context, id string) (*domain.User, error) {
	return uc.promote(ctx, id, domain.RoleInstructor)
}

// promote overwrites the stored role. Last write wins and repeating a
// promotion is a no-op, so no current-role check is needed.
func (uc *UseCase) promote(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if id == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "user id is required")
	}

	user, err := uc.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("identity role updated",
		zap.String("user_id", user.ID),
		zap.String("role", string(role)))
	return user, nil
}

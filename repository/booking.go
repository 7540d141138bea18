package repository

import (
	"context"

	"github.com/emagraphy/backend/domain"
)

type BookingFilter struct {
	StudentEmail string
	ClassID      string
	Status       string
	Limit        int
	Offset       int
}

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

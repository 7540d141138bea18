package repository

import (
	"context"
	"time"

	"github.com/emagraphy/backend/domain"
)

type PaymentFilter struct {
	PayerEmail string
	Status     string
	Limit      int
	Offset     int
}

type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id, status, transactionID string) error
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

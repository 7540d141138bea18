package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/pkg/logger"
	"github.com/emagraphy/backend/repository"
	"github.com/emagraphy/backend/usecase"
)

// BookingSettler is the slice of the booking flow the payment flow needs.
type BookingSettler interface {
	MarkPaid(ctx context.Context, id string) error
}

type UseCase struct {
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	classes  repository.ClassRepository
	settler  BookingSettler
	gateway  usecase.PaymentGateway
	logger   *zap.Logger
}

func New(
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	classes repository.ClassRepository,
	settler BookingSettler,
	gateway usecase.PaymentGateway,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		payments: payments,
		bookings: bookings,
		classes:  classes,
		settler:  settler,
		gateway:  gateway,
		logger:   logger,
	}
}

// Charge pays for a reserved booking through the external gateway. The
// payment row is written as pending before the gateway call so an interrupted
// charge is visible to the expiry sweeper rather than silently lost.
func (uc *UseCase) Charge(ctx context.Context, bookingID, payerEmail string) (*domain.Payment, error) {
	if bookingID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "booking id is required")
	}
	log := logger.For(ctx, uc.logger)

	booking, err := uc.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.StudentEmail != payerEmail {
		return nil, domain.ErrForbidden
	}
	if !booking.IsPayable() {
		return nil, domain.NewError(domain.ErrCodeConflict, "booking is not payable")
	}

	class, err := uc.classes.GetByID(ctx, booking.ClassID)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:          uuid.NewString(),
		BookingID:   bookingID,
		PayerEmail:  payerEmail,
		AmountCents: class.PriceCents,
		Currency:    "usd",
		Status:      domain.PaymentStatusPending,
	}
	if _, err := uc.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	result, err := uc.gateway.Charge(ctx, usecase.ChargeRequest{
		Reference:   payment.ID,
		AmountCents: payment.AmountCents,
		Currency:    payment.Currency,
		PayerEmail:  payerEmail,
	})
	if err != nil {
		log.Error("payment gateway unreachable",
			zap.String("payment_id", payment.ID), zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "payment gateway unavailable", err)
	}

	if !result.Succeeded {
		if err := uc.payments.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed, result.TransactionID); err != nil {
			log.Error("failed to record declined payment", zap.Error(err))
		}
		payment.Status = domain.PaymentStatusFailed
		payment.TransactionID = result.TransactionID
		return payment, domain.NewError(domain.ErrCodeConflict, "payment was declined")
	}

	if err := uc.payments.UpdateStatus(ctx, payment.ID, domain.PaymentStatusSucceeded, result.TransactionID); err != nil {
		return nil, err
	}
	if err := uc.settler.MarkPaid(ctx, bookingID); err != nil {
		log.Error("charged booking could not be marked paid",
			zap.String("booking_id", bookingID), zap.Error(err))
	}

	payment.Status = domain.PaymentStatusSucceeded
	payment.TransactionID = result.TransactionID
	log.Info("payment settled",
		zap.String("payment_id", payment.ID),
		zap.String("transaction_id", result.TransactionID))
	return payment, nil
}

// ListOwn returns the caller's payment history.
func (uc *UseCase) ListOwn(ctx context.Context, payerEmail string, limit, offset int) ([]domain.Payment, error) {
	return uc.payments.List(ctx, repository.PaymentFilter{
		PayerEmail: payerEmail,
		Limit:      limit,
		Offset:     offset,
	})
}

// ExpireStalePending marks pending payments older than maxAge as expired.
// Run on a schedule by the sweeper.
func (uc *UseCase) ExpireStalePending(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	expired, err := uc.payments.ExpirePendingBefore(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		uc.logger.Info("stale pending payments expired", zap.Int64("count", expired))
	}
	return expired, nil
}

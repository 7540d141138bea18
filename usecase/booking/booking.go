package booking

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/pkg/logger"
	"github.com/emagraphy/backend/repository"
)

type UseCase struct {
	bookings repository.BookingRepository
	classes  repository.ClassRepository
	logger   *zap.Logger
}

func New(bookings repository.BookingRepository, classes repository.ClassRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		bookings: bookings,
		classes:  classes,
		logger:   logger,
	}
}

// Book reserves a seat on an approved class for the caller.
func (uc *UseCase) Book(ctx context.Context, classID, studentEmail string) (*domain.Booking, error) {
	if classID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "class id is required")
	}

	log := logger.For(ctx, uc.logger)

	class, err := uc.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !class.IsBookable() {
		return nil, domain.NewError(domain.ErrCodeConflict, "class is not open for booking")
	}

	if err := uc.classes.AdjustSeats(ctx, classID, -1); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:           uuid.NewString(),
		ClassID:      classID,
		StudentEmail: studentEmail,
		Status:       domain.BookingStatusReserved,
	}
	created, err := uc.bookings.Create(ctx, booking)
	if err != nil {
		// Hand the seat back; the reservation never existed.
		if seatErr := uc.classes.AdjustSeats(ctx, classID, 1); seatErr != nil {
			log.Error("failed to release seat after booking error",
				zap.String("class_id", classID), zap.Error(seatErr))
		}
		return nil, err
	}

	log.Info("booking created",
		zap.String("booking_id", created.ID),
		zap.String("class_id", classID))
	return created, nil
}

// ListOwn returns the caller's bookings.
func (uc *UseCase) ListOwn(ctx context.Context, studentEmail string, limit, offset int) ([]domain.Booking, error) {
	return uc.bookings.List(ctx, repository.BookingFilter{
		StudentEmail: studentEmail,
		Limit:        limit,
		Offset:       offset,
	})
}

// Cancel releases a reserved booking owned by the caller. Paid bookings
// cannot be cancelled here; refunds are a gateway concern.
func (uc *UseCase) Cancel(ctx context.Context, id, studentEmail string) error {
	booking, err := uc.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.StudentEmail != studentEmail {
		return domain.ErrForbidden
	}
	if booking.Status != domain.BookingStatusReserved {
		return domain.NewError(domain.ErrCodeConflict, "only reserved bookings can be cancelled")
	}

	if err := uc.bookings.UpdateStatus(ctx, id, domain.BookingStatusCancelled); err != nil {
		return err
	}
	if err := uc.classes.AdjustSeats(ctx, booking.ClassID, 1); err != nil {
		logger.For(ctx, uc.logger).Error("failed to release seat for cancelled booking",
			zap.String("booking_id", id), zap.Error(err))
	}
	return nil
}

// MarkPaid flips a reserved booking to paid. Called by the payment flow.
func (uc *UseCase) MarkPaid(ctx context.Context, id string) error {
	return uc.bookings.UpdateStatus(ctx, id, domain.BookingStatusPaid)
}

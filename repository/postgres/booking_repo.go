package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/repository"
)

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository returns a Postgres-backed implementation of BookingRepository.
func NewBookingRepository(pool *pgxpool.Pool) repository.BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingColumns = `id, class_id, student_email, status, created_at, updated_at`

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

func (r *bookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE 1=1
	`
	args := []interface{}{}
	if filter.StudentEmail != "" {
		args = append(args, filter.StudentEmail)
		query += fmt.Sprintf(" AND student_email = $%d", len(args))
	}
	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		query += fmt.Sprintf(" AND class_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID, &booking.ClassID, &booking.StudentEmail,
			&booking.Status, &booking.CreatedAt, &booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if booking == nil || booking.ClassID == "" || booking.StudentEmail == "" {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
		INSERT INTO bookings (id, class_id, student_email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		booking.ID,
		booking.ClassID,
		booking.StudentEmail,
		booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var booking domain.Booking
	if err := row.Scan(
		&booking.ID, &booking.ClassID, &booking.StudentEmail,
		&booking.Status, &booking.CreatedAt, &booking.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/repository"
)

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a Postgres-backed implementation of PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) repository.PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, booking_id, payer_email, amount_cents, currency, status, transaction_id, created_at, updated_at`

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	const query = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = $1
	`
	return scanPayment(r.pool.QueryRow(ctx, query, id))
}

func (r *paymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE 1=1
	`
	args := []interface{}{}
	if filter.PayerEmail != "" {
		args = append(args, filter.PayerEmail)
		query += fmt.Sprintf(" AND payer_email = $%d", len(args))
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

	var payments []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID, &payment.BookingID, &payment.PayerEmail, &payment.AmountCents,
			&payment.Currency, &payment.Status, &payment.TransactionID,
			&payment.CreatedAt, &payment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil || payment.BookingID == "" || payment.PayerEmail == "" {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
		INSERT INTO payments (id, booking_id, payer_email, amount_cents, currency, status, transaction_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.PayerEmail,
		payment.AmountCents,
		payment.Currency,
		payment.Status,
		payment.TransactionID,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt); err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id, status, transactionID string) error {
	const query = `
		UPDATE payments
		SET status = $2, transaction_id = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status, transactionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < $3
	`
	tag, err := r.pool.Exec(ctx, query, domain.PaymentStatusExpired, domain.PaymentStatusPending, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	if err := row.Scan(
		&payment.ID, &payment.BookingID, &payment.PayerEmail, &payment.AmountCents,
		&payment.Currency, &payment.Status, &payment.TransactionID,
		&payment.CreatedAt, &payment.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

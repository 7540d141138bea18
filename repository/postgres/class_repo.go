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

type classRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository returns a Postgres-backed implementation of ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) repository.ClassRepository {
	return &classRepository{pool: pool}
}

const classColumns = `id, instructor_email, title, description, price_cents, seats, status, created_at, updated_at`

func (r *classRepository) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	const query = `
		SELECT ` + classColumns + `
		FROM classes
		WHERE id = $1
	`
	return scanClass(r.pool.QueryRow(ctx, query, id))
}

func (r *classRepository) List(ctx context.Context, filter repository.ClassFilter) ([]domain.Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM classes
		WHERE 1=1
	`
	args := []interface{}{}
	if filter.InstructorEmail != "" {
		args = append(args, filter.InstructorEmail)
		query += fmt.Sprintf(" AND instructor_email = $%d", len(args))
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

	var classes []domain.Class
	for rows.Next() {
		var class domain.Class
		if err := rows.Scan(
			&class.ID, &class.InstructorEmail, &class.Title, &class.Description,
			&class.PriceCents, &class.Seats, &class.Status, &class.CreatedAt, &class.UpdatedAt,
		); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}

func (r *classRepository) Create(ctx context.Context, class *domain.Class) (*domain.Class, error) {
	if class == nil || class.Title == "" || class.InstructorEmail == "" {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
		INSERT INTO classes (id, instructor_email, title, description, price_cents, seats, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		class.ID,
		class.InstructorEmail,
		class.Title,
		class.Description,
		class.PriceCents,
		class.Seats,
		class.Status,
	).Scan(&class.CreatedAt, &class.UpdatedAt); err != nil {
		return nil, err
	}
	return class, nil
}

func (r *classRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Class, error) {
	const query = `
		UPDATE classes
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + classColumns + `
	`
	return scanClass(r.pool.QueryRow(ctx, query, id, status))
}

func (r *classRepository) AdjustSeats(ctx context.Context, id string, delta int) error {
	const query = `
		UPDATE classes
		SET seats = seats + $2, updated_at = NOW()
		WHERE id = $1 AND seats + $2 >= 0
	`
	tag, err := r.pool.Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// The guarded update matched nothing: either the class is gone or the
	// adjustment would oversell it.
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrClassNotFound
	}
	return domain.ErrClassSoldOut
}

func scanClass(row pgx.Row) (*domain.Class, error) {
	var class domain.Class
	if err := row.Scan(
		&class.ID, &class.InstructorEmail, &class.Title, &class.Description,
		&class.PriceCents, &class.Seats, &class.Status, &class.CreatedAt, &class.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClassNotFound
		}
		return nil, err
	}
	return &class, nil
}

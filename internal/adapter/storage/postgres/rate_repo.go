package postgres

import (
	"context"
	"errors"
	"fmt"

	"paywave/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RateRepo implements ports.RateRepository.
type RateRepo struct {
	pool Pool
}

// NewRateRepo creates a new RateRepo.
func NewRateRepo(pool Pool) *RateRepo {
	return &RateRepo{pool: pool}
}

// Create inserts a new exchange rate row.
func (r *RateRepo) Create(ctx context.Context, rate *domain.Rate) error {
	query := `INSERT INTO rates (id, method, ngn_per_usd, tag, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		rate.ID, rate.Method, rate.NGNPerUSD, rate.Tag, rate.Status, rate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rate: %w", err)
	}
	return nil
}

// GetByID fetches a rate row by UUID.
func (r *RateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rate, error) {
	query := `SELECT id, method, ngn_per_usd, tag, status, updated_at
		FROM rates WHERE id = $1`

	rate := &domain.Rate{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rate.ID, &rate.Method, &rate.NGNPerUSD, &rate.Tag, &rate.Status, &rate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rate by id: %w", err)
	}
	return rate, nil
}

// GetByMethod fetches a rate row by its payment method name.
func (r *RateRepo) GetByMethod(ctx context.Context, method string) (*domain.Rate, error) {
	query := `SELECT id, method, ngn_per_usd, tag, status, updated_at
		FROM rates WHERE method = $1`

	rate := &domain.Rate{}
	err := r.pool.QueryRow(ctx, query, method).Scan(
		&rate.ID, &rate.Method, &rate.NGNPerUSD, &rate.Tag, &rate.Status, &rate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rate by method: %w", err)
	}
	return rate, nil
}

// List returns all rate rows ordered by method name.
func (r *RateRepo) List(ctx context.Context) ([]domain.Rate, error) {
	query := `SELECT id, method, ngn_per_usd, tag, status, updated_at
		FROM rates ORDER BY method`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.Rate
	for rows.Next() {
		var rate domain.Rate
		if err := rows.Scan(
			&rate.ID, &rate.Method, &rate.NGNPerUSD, &rate.Tag, &rate.Status, &rate.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rates: %w", err)
	}
	return rates, nil
}

// Count returns the number of rate rows. Used to decide first-run seeding.
func (r *RateRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rates`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rates: %w", err)
	}
	return count, nil
}

// Update overwrites a rate row's value, tag and status.
func (r *RateRepo) Update(ctx context.Context, rate *domain.Rate) error {
	query := `UPDATE rates SET ngn_per_usd = $1, tag = $2, status = $3, updated_at = $4 WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query,
		rate.NGNPerUSD, rate.Tag, rate.Status, rate.UpdatedAt, rate.ID,
	)
	if err != nil {
		return fmt.Errorf("update rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rate not found: %s", rate.ID)
	}
	return nil
}

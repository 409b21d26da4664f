package postgres

import (
	"context"
	"errors"
	"fmt"

	"paywave/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TradeRepo implements ports.TradeRepository.
type TradeRepo struct {
	pool Pool
}

// NewTradeRepo creates a new TradeRepo.
func NewTradeRepo(pool Pool) *TradeRepo {
	return &TradeRepo{pool: pool}
}

// Create inserts a new trade request.
func (r *TradeRepo) Create(ctx context.Context, t *domain.TradeRequest) error {
	query := `INSERT INTO trades (id, user_id, method, amount_usd, amount_ngn, proof_file, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.UserID, t.Method, t.AmountUSD, t.AmountNGN, t.ProofFile, t.Status, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// GetByID fetches a trade request by UUID (without locking).
func (r *TradeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TradeRequest, error) {
	query := `SELECT id, user_id, method, amount_usd, amount_ngn, proof_file, status, created_at
		FROM trades WHERE id = $1`

	t := &domain.TradeRequest{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Method, &t.AmountUSD, &t.AmountNGN, &t.ProofFile, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetByIDForUpdate fetches a trade request by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *TradeRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TradeRequest, error) {
	query := `SELECT id, user_id, method, amount_usd, amount_ngn, proof_file, status, created_at
		FROM trades WHERE id = $1 FOR UPDATE`

	t := &domain.TradeRequest{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Method, &t.AmountUSD, &t.AmountNGN, &t.ProofFile, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get trade for update: %w", err)
	}
	return t, nil
}

// ListByUser returns a user's trade requests, newest first.
func (r *TradeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TradeRequest, error) {
	query := `SELECT id, user_id, method, amount_usd, amount_ngn, proof_file, status, created_at
		FROM trades WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list trades by user: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// ListByStatus returns all trade requests in a given status, oldest first
// so the settlement queue drains in submission order.
func (r *TradeRepo) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.TradeRequest, error) {
	query := `SELECT id, user_id, method, amount_usd, amount_ngn, proof_file, status, created_at
		FROM trades WHERE status = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list trades by status: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// UpdateStatus moves a trade request to a new status within a transaction.
func (r *TradeRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus) error {
	query := `UPDATE trades SET status = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update trade status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade not found: %s", id)
	}
	return nil
}

func scanTrades(rows pgx.Rows) ([]domain.TradeRequest, error) {
	var trades []domain.TradeRequest
	for rows.Next() {
		var t domain.TradeRequest
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Method, &t.AmountUSD, &t.AmountNGN, &t.ProofFile, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return trades, nil
}

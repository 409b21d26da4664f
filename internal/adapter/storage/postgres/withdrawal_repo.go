package postgres

import (
	"context"
	"errors"
	"fmt"

	"paywave/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WithdrawalRepo implements ports.WithdrawalRepository.
type WithdrawalRepo struct {
	pool Pool
}

// NewWithdrawalRepo creates a new WithdrawalRepo.
func NewWithdrawalRepo(pool Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

// Create inserts a new withdrawal request.
func (r *WithdrawalRepo) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	query := `INSERT INTO withdrawals (id, user_id, payee_name, bank, account, amount_ngn, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.UserID, w.PayeeName, w.Bank, w.Account, w.AmountNGN, w.Status, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// GetByID fetches a withdrawal request by UUID (without locking).
func (r *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	query := `SELECT id, user_id, payee_name, bank, account, amount_ngn, status, created_at
		FROM withdrawals WHERE id = $1`

	w := &domain.WithdrawalRequest{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.UserID, &w.PayeeName, &w.Bank, &w.Account, &w.AmountNGN, &w.Status, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get withdrawal by id: %w", err)
	}
	return w, nil
}

// GetByIDForUpdate fetches a withdrawal request by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WithdrawalRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	query := `SELECT id, user_id, payee_name, bank, account, amount_ngn, status, created_at
		FROM withdrawals WHERE id = $1 FOR UPDATE`

	w := &domain.WithdrawalRequest{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.UserID, &w.PayeeName, &w.Bank, &w.Account, &w.AmountNGN, &w.Status, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get withdrawal for update: %w", err)
	}
	return w, nil
}

// ListByUser returns a user's withdrawal requests, newest first.
func (r *WithdrawalRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRequest, error) {
	query := `SELECT id, user_id, payee_name, bank, account, amount_ngn, status, created_at
		FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals by user: %w", err)
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// ListByStatus returns all withdrawal requests in a given status, oldest first.
func (r *WithdrawalRepo) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.WithdrawalRequest, error) {
	query := `SELECT id, user_id, payee_name, bank, account, amount_ngn, status, created_at
		FROM withdrawals WHERE status = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals by status: %w", err)
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// UpdateStatus moves a withdrawal request to a new status within a transaction.
func (r *WithdrawalRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus) error {
	query := `UPDATE withdrawals SET status = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update withdrawal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal not found: %s", id)
	}
	return nil
}

func scanWithdrawals(rows pgx.Rows) ([]domain.WithdrawalRequest, error) {
	var withdrawals []domain.WithdrawalRequest
	for rows.Next() {
		var w domain.WithdrawalRequest
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.PayeeName, &w.Bank, &w.Account, &w.AmountNGN, &w.Status, &w.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate withdrawals: %w", err)
	}
	return withdrawals, nil
}

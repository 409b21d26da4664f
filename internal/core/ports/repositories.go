package ports

import (
	"context"

	"paywave/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// UserRepository defines persistence operations for user accounts.
// Methods accepting pgx.Tx are used inside settlement transactions for
// pessimistic locking.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error
	List(ctx context.Context) ([]domain.User, error)
}

// RateRepository defines persistence operations for exchange rates.
type RateRepository interface {
	Create(ctx context.Context, rate *domain.Rate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rate, error)
	GetByMethod(ctx context.Context, method string) (*domain.Rate, error)
	List(ctx context.Context) ([]domain.Rate, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, rate *domain.Rate) error
}

// TradeRepository defines persistence operations for trade requests.
type TradeRepository interface {
	Create(ctx context.Context, trade *domain.TradeRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TradeRequest, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TradeRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TradeRequest, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.TradeRequest, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus) error
}

// WithdrawalRepository defines persistence operations for withdrawal requests.
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *domain.WithdrawalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRequest, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.WithdrawalRequest, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.RequestStatus) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

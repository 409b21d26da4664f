package ports

import (
	"context"
	"io"
	"time"

	"paywave/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT session token operations.
type TokenService interface {
	Generate(user *domain.User) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims. TokenID (jti) identifies the
// session for deny-listing on logout.
type TokenClaims struct {
	UserID    uuid.UUID
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// Caller converts claims into the explicit identity value passed to
// role-checked operations.
func (c *TokenClaims) Caller() domain.Caller {
	return domain.Caller{UserID: c.UserID, Role: c.Role}
}

// SessionDenylist invalidates issued tokens before their natural expiry.
type SessionDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ProofUpload carries an uploaded proof-of-payment file.
type ProofUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ProofStore persists proof-of-payment files outside the relational store.
type ProofStore interface {
	// Save validates and stores the upload, returning the generated name
	// recorded on the trade row.
	Save(userID uuid.UUID, upload ProofUpload) (string, error)
	Open(name string) (io.ReadCloser, error)
}

// --- Service Ports (Business Logic) ---

// AuthService defines registration and session business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims *TokenClaims) error
}

// RegisterRequest holds validated input for account registration.
type RegisterRequest struct {
	Email    string
	Name     string
	Password string
}

// LoginResult holds a successful authentication outcome.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RateService defines rate lookup and admin rate management.
type RateService interface {
	GetByMethod(ctx context.Context, method string) (*domain.Rate, error)
	List(ctx context.Context) ([]domain.Rate, error)
	BulkUpdate(ctx context.Context, caller domain.Caller, updates []RateUpdate) (*RateUpdateResult, error)
}

// RateUpdate is one structured record of the admin bulk update. Each field
// is independently optional; only supplied fields are overwritten.
type RateUpdate struct {
	ID     uuid.UUID
	Rate   *decimal.Decimal
	Tag    *string
	Status *string
}

// RateUpdateResult reports how the bulk update degraded, if at all.
type RateUpdateResult struct {
	Applied int
	Skipped int
}

// TradeService defines deposit submission business logic.
type TradeService interface {
	Submit(ctx context.Context, userID uuid.UUID, req TradeSubmission) (*domain.TradeRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TradeRequest, error)
}

// TradeSubmission holds raw input for a deposit. AmountUSD stays a string
// until validated as a positive decimal.
type TradeSubmission struct {
	Method    string
	AmountUSD string
	Proof     *ProofUpload
}

// WithdrawalService defines withdrawal submission business logic.
type WithdrawalService interface {
	Submit(ctx context.Context, userID uuid.UUID, req WithdrawalSubmission) (*domain.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRequest, error)
}

// WithdrawalSubmission holds raw input for a withdrawal request.
type WithdrawalSubmission struct {
	PayeeName string
	Bank      string
	Account   string
	AmountNGN string
}

// SettlementOutcome distinguishes what an approve/reject call actually did.
type SettlementOutcome string

const (
	OutcomeApproved            SettlementOutcome = "approved"
	OutcomeRejected            SettlementOutcome = "rejected"
	OutcomeInsufficientBalance SettlementOutcome = "insufficient_balance"
	OutcomeAlreadySettled      SettlementOutcome = "already_settled"
)

// SettlementService is the engine moving Pending requests to a terminal
// state, atomically with the corresponding balance mutation. All
// operations require an admin caller and are idempotent: a request already
// in a terminal state yields OutcomeAlreadySettled with no balance effect.
type SettlementService interface {
	ApproveTrade(ctx context.Context, caller domain.Caller, tradeID uuid.UUID) (SettlementOutcome, error)
	RejectTrade(ctx context.Context, caller domain.Caller, tradeID uuid.UUID) (SettlementOutcome, error)
	ApproveWithdrawal(ctx context.Context, caller domain.Caller, withdrawalID uuid.UUID) (SettlementOutcome, error)
	RejectWithdrawal(ctx context.Context, caller domain.Caller, withdrawalID uuid.UUID) (SettlementOutcome, error)
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalRequest is a user's request to debit NGN balance and receive
// it at an external bank account. Immutable once created except for Status.
type WithdrawalRequest struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	PayeeName string          `json:"name"`
	Bank      string          `json:"bank"`
	Account   string          `json:"account"`
	AmountNGN decimal.Decimal `json:"amount_ngn"`
	Status    RequestStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStatus is the lifecycle state shared by trades and withdrawals.
// Pending transitions exactly once, to Approved or Rejected.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// IsTerminal returns true once no further transition is permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// TradeRequest is a user's request to convert a USD deposit into NGN
// balance credit. AmountNGN is the rate snapshot taken at submission.
// Immutable once created except for Status.
type TradeRequest struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Method    string          `json:"method"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	AmountNGN decimal.Decimal `json:"amount_ngn"`
	ProofFile *string         `json:"proof_file,omitempty"`
	Status    RequestStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

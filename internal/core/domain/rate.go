package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateStatus represents the availability of a payment method.
type RateStatus string

const (
	RateStatusActive RateStatus = "active"
	RateStatusLocked RateStatus = "locked"
)

// Rate is an admin-published USD→NGN conversion for one payment method.
// Tag is the free-text destination shown to depositors (wallet address,
// cash tag, payee email).
type Rate struct {
	ID        uuid.UUID       `json:"id"`
	Method    string          `json:"method"`
	NGNPerUSD decimal.Decimal `json:"rate"`
	Tag       string          `json:"tag"`
	Status    RateStatus      `json:"status"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsLocked returns true if the method must not accept new trades.
func (r *Rate) IsLocked() bool {
	return r.Status == RateStatusLocked
}

// Convert computes the NGN credit for a USD amount at this rate, rounded
// half-up to 2 decimal places. The result is snapshotted onto the trade at
// submission time and never recomputed after rate edits.
func (r *Rate) Convert(amountUSD decimal.Decimal) decimal.Decimal {
	return amountUSD.Mul(r.NGNPerUSD).Round(2)
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role distinguishes regular account holders from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account. BalanceNGN is mutated only by the
// settlement engine; every other path treats it as read-only.
type User struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"-"` // Never expose
	BalanceNGN   decimal.Decimal `json:"balance_ngn"`
	Role         Role            `json:"role"`
	CreatedAt    time.Time       `json:"created_at"`
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Caller is the explicit identity passed into role-checked operations,
// rather than reading it from ambient request state.
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin returns true if the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRate_Convert(t *testing.T) {
	tests := []struct {
		name      string
		rate      string
		amountUSD string
		expected  string
	}{
		{"whole numbers", "1400", "10", "14000"},
		{"fractional usd", "1300", "10.50", "13650"},
		{"rounds half up", "1.005", "1", "1.01"},
		{"rounds down below half", "1.004", "1", "1"},
		{"two decimal result", "1100.55", "3.33", "3664.83"},
		{"small amount", "1300", "0.01", "13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Rate{Method: "Bitcoin", NGNPerUSD: dec(tt.rate), Status: RateStatusActive}
			got := r.Convert(dec(tt.amountUSD))
			assert.True(t, dec(tt.expected).Equal(got),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestRate_Convert_SnapshotIndependentOfLaterEdits(t *testing.T) {
	r := &Rate{Method: "Zelle", NGNPerUSD: dec("1100"), Status: RateStatusActive}
	snapshot := r.Convert(dec("20"))
	require.True(t, dec("22000").Equal(snapshot))

	// A later rate edit must not affect the snapshot already taken.
	r.NGNPerUSD = dec("900")
	assert.True(t, dec("22000").Equal(snapshot))
}

func TestRate_IsLocked(t *testing.T) {
	active := &Rate{Status: RateStatusActive}
	locked := &Rate{Status: RateStatusLocked}

	assert.False(t, active.IsLocked())
	assert.True(t, locked.IsLocked())
}

func TestRequestStatus_IsTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.True(t, RequestStatusApproved.IsTerminal())
	assert.True(t, RequestStatusRejected.IsTerminal())
}

func TestUser_IsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	user := &User{Role: RoleUser}

	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())
}

func TestCaller_IsAdmin(t *testing.T) {
	assert.True(t, Caller{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Caller{Role: RoleUser}.IsAdmin())
}

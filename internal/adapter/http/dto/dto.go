package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Name     string `json:"name" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	BalanceNGN string `json:"balance_ngn"`
	Role       string `json:"role"`
	CreatedAt  string `json:"created_at"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string       `json:"token"`
	Expiry int64        `json:"expiry"` // Unix timestamp
	User   UserResponse `json:"user"`
}

// RateInfoResponse is the public rate lookup contract. Unknown methods
// answer {ok:false} with the remaining fields omitted.
type RateInfoResponse struct {
	OK     bool   `json:"ok"`
	Rate   string `json:"rate,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Status string `json:"status,omitempty"`
}

// RateResponse is the full view of a published rate.
type RateResponse struct {
	ID        string `json:"id"`
	Method    string `json:"method"`
	Rate      string `json:"rate"`
	Tag       string `json:"tag"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// TradeResponse is the view of a deposit request.
type TradeResponse struct {
	ID        string  `json:"id"`
	Method    string  `json:"method"`
	AmountUSD string  `json:"amount_usd"`
	AmountNGN string  `json:"amount_ngn"`
	ProofFile *string `json:"proof_file,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// WithdrawalRequest is the request body for a withdrawal submission.
type WithdrawalRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Bank    string `json:"bank" binding:"required,max=100"`
	Account string `json:"account" binding:"required,max=34"`
	Amount  string `json:"amount" binding:"required,decimal_gt0"`
}

// WithdrawalResponse is the view of a withdrawal request.
type WithdrawalResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Bank      string `json:"bank"`
	Account   string `json:"account"`
	AmountNGN string `json:"amount_ngn"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// DashboardResponse bundles everything the account page renders.
type DashboardResponse struct {
	User        UserResponse         `json:"user"`
	Rates       []RateResponse       `json:"rates"`
	Trades      []TradeResponse      `json:"trades"`
	Withdrawals []WithdrawalResponse `json:"withdrawals"`
}

// RateUpdateRecord is one row of the admin bulk rate update. Omitted
// fields keep their stored value.
type RateUpdateRecord struct {
	ID     string  `json:"id" binding:"required,uuid"`
	Rate   *string `json:"rate,omitempty"`
	Tag    *string `json:"tag,omitempty"`
	Status *string `json:"status,omitempty"`
}

// RateBulkUpdateRequest is the request body for PUT /admin/rates.
type RateBulkUpdateRequest struct {
	Rates []RateUpdateRecord `json:"rates" binding:"required,min=1,dive"`
}

// RateBulkUpdateResponse reports how many rows the bulk update touched.
type RateBulkUpdateResponse struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// AdminOverviewResponse bundles the settlement queues and account list.
type AdminOverviewResponse struct {
	Users              []UserResponse       `json:"users"`
	Rates              []RateResponse       `json:"rates"`
	PendingTrades      []TradeResponse      `json:"pending_trades"`
	PendingWithdrawals []WithdrawalResponse `json:"pending_withdrawals"`
}

// SettlementResponse reports what an approve/reject call did.
type SettlementResponse struct {
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
}

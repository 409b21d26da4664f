package handler

import (
	"time"

	"paywave/internal/adapter/http/dto"
	"paywave/internal/core/domain"
)

// Domain-to-DTO mapping. Amounts render as decimal strings so clients
// never see binary floats.

func userView(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		BalanceNGN: u.BalanceNGN.StringFixed(2),
		Role:       string(u.Role),
		CreatedAt:  u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func userViews(users []domain.User) []dto.UserResponse {
	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = userView(&users[i])
	}
	return out
}

func rateView(r *domain.Rate) dto.RateResponse {
	return dto.RateResponse{
		ID:        r.ID.String(),
		Method:    r.Method,
		Rate:      r.NGNPerUSD.String(),
		Tag:       r.Tag,
		Status:    string(r.Status),
		UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func rateViews(rates []domain.Rate) []dto.RateResponse {
	out := make([]dto.RateResponse, len(rates))
	for i := range rates {
		out[i] = rateView(&rates[i])
	}
	return out
}

func tradeView(t *domain.TradeRequest) dto.TradeResponse {
	return dto.TradeResponse{
		ID:        t.ID.String(),
		Method:    t.Method,
		AmountUSD: t.AmountUSD.StringFixed(2),
		AmountNGN: t.AmountNGN.StringFixed(2),
		ProofFile: t.ProofFile,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func tradeViews(trades []domain.TradeRequest) []dto.TradeResponse {
	out := make([]dto.TradeResponse, len(trades))
	for i := range trades {
		out[i] = tradeView(&trades[i])
	}
	return out
}

func withdrawalView(w *domain.WithdrawalRequest) dto.WithdrawalResponse {
	return dto.WithdrawalResponse{
		ID:        w.ID.String(),
		Name:      w.PayeeName,
		Bank:      w.Bank,
		Account:   w.Account,
		AmountNGN: w.AmountNGN.StringFixed(2),
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func withdrawalViews(withdrawals []domain.WithdrawalRequest) []dto.WithdrawalResponse {
	out := make([]dto.WithdrawalResponse, len(withdrawals))
	for i := range withdrawals {
		out[i] = withdrawalView(&withdrawals[i])
	}
	return out
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paywave/internal/core/domain"
	"paywave/internal/core/ports"
	"paywave/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TradeServiceImpl implements ports.TradeService.
type TradeServiceImpl struct {
	tradeRepo  ports.TradeRepository
	rateRepo   ports.RateRepository
	proofStore ports.ProofStore
	log        zerolog.Logger
}

// NewTradeService creates a new TradeServiceImpl.
func NewTradeService(
	tradeRepo ports.TradeRepository,
	rateRepo ports.RateRepository,
	proofStore ports.ProofStore,
	log zerolog.Logger,
) *TradeServiceImpl {
	return &TradeServiceImpl{
		tradeRepo:  tradeRepo,
		rateRepo:   rateRepo,
		proofStore: proofStore,
		log:        log,
	}
}

// Submit validates a deposit request and inserts it as Pending. The NGN
// amount is snapshotted from the current rate; the user's balance is not
// touched until an admin approves the trade.
func (s *TradeServiceImpl) Submit(ctx context.Context, userID uuid.UUID, req ports.TradeSubmission) (*domain.TradeRequest, error) {
	amountUSD, err := decimal.NewFromString(strings.TrimSpace(req.AmountUSD))
	if err != nil || !amountUSD.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	rate, err := s.rateRepo.GetByMethod(ctx, strings.TrimSpace(req.Method))
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("fetch rate: %w", err))
	}
	if rate == nil {
		return nil, apperror.ErrNotFound("Payment method")
	}
	if rate.IsLocked() {
		return nil, apperror.ErrRateLocked(rate.Method)
	}

	var proofFile *string
	if req.Proof != nil {
		name, err := s.proofStore.Save(userID, *req.Proof)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				return nil, err
			}
			return nil, apperror.InternalError(fmt.Errorf("store proof: %w", err))
		}
		proofFile = &name
	}

	trade := &domain.TradeRequest{
		ID:        uuid.New(),
		UserID:    userID,
		Method:    rate.Method,
		AmountUSD: amountUSD,
		AmountNGN: rate.Convert(amountUSD),
		ProofFile: proofFile,
		Status:    domain.RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("create trade: %w", err))
	}

	s.log.Info().
		Str("trade_id", trade.ID.String()).
		Str("user_id", userID.String()).
		Str("method", trade.Method).
		Str("amount_usd", trade.AmountUSD.String()).
		Str("amount_ngn", trade.AmountNGN.String()).
		Msg("trade submitted")

	return trade, nil
}

// ListByUser returns the user's trade history, newest first.
func (s *TradeServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TradeRequest, error) {
	trades, err := s.tradeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("list trades: %w", err))
	}
	return trades, nil
}

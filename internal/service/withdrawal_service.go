package service

import (
	"context"
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

// WithdrawalServiceImpl implements ports.WithdrawalService.
type WithdrawalServiceImpl struct {
	withdrawalRepo ports.WithdrawalRepository
	userRepo       ports.UserRepository
	log            zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl.
func NewWithdrawalService(
	withdrawalRepo ports.WithdrawalRepository,
	userRepo ports.UserRepository,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		log:            log,
	}
}

// Submit validates a withdrawal request and inserts it as Pending.
// The balance check here is advisory only: nothing is reserved, so the sum
// of pending withdrawals may exceed the balance. Approval re-checks inside
// the settlement transaction.
func (s *WithdrawalServiceImpl) Submit(ctx context.Context, userID uuid.UUID, req ports.WithdrawalSubmission) (*domain.WithdrawalRequest, error) {
	payeeName := strings.TrimSpace(req.PayeeName)
	bank := strings.TrimSpace(req.Bank)
	account := strings.TrimSpace(req.Account)

	if payeeName == "" || bank == "" || account == "" {
		return nil, apperror.ErrInvalidInput("Name, bank and account are required")
	}

	amountNGN, err := decimal.NewFromString(strings.TrimSpace(req.AmountNGN))
	if err != nil || !amountNGN.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("fetch user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("User")
	}
	if amountNGN.GreaterThan(user.BalanceNGN) {
		return nil, apperror.ErrInsufficientBalance()
	}

	withdrawal := &domain.WithdrawalRequest{
		ID:        uuid.New(),
		UserID:    userID,
		PayeeName: payeeName,
		Bank:      bank,
		Account:   account,
		AmountNGN: amountNGN,
		Status:    domain.RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("create withdrawal: %w", err))
	}

	s.log.Info().
		Str("withdrawal_id", withdrawal.ID.String()).
		Str("user_id", userID.String()).
		Str("amount_ngn", withdrawal.AmountNGN.String()).
		Msg("withdrawal submitted")

	return withdrawal, nil
}

// ListByUser returns the user's withdrawal history, newest first.
func (s *WithdrawalServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WithdrawalRequest, error) {
	withdrawals, err := s.withdrawalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("list withdrawals: %w", err))
	}
	return withdrawals, nil
}

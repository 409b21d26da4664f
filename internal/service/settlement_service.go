package service

import (
	"context"
	"fmt"

	"paywave/internal/core/domain"
	"paywave/internal/core/ports"
	"paywave/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SettlementServiceImpl implements ports.SettlementService. Every operation
// runs in a single database transaction that locks the request row (and the
// user row when the balance changes) with SELECT ... FOR UPDATE, so two
// admins settling the same request serialize and the loser sees a terminal
// status.
type SettlementServiceImpl struct {
	tradeRepo      ports.TradeRepository
	withdrawalRepo ports.WithdrawalRepository
	userRepo       ports.UserRepository
	transactor     ports.DBTransactor
	log            zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(
	tradeRepo ports.TradeRepository,
	withdrawalRepo ports.WithdrawalRepository,
	userRepo ports.UserRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		tradeRepo:      tradeRepo,
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		transactor:     transactor,
		log:            log,
	}
}

// ApproveTrade credits the snapshotted NGN amount to the user's balance and
// marks the trade approved, atomically.
func (s *SettlementServiceImpl) ApproveTrade(ctx context.Context, caller domain.Caller, tradeID uuid.UUID) (ports.SettlementOutcome, error) {
	if !caller.IsAdmin() {
		return "", apperror.ErrForbidden()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("begin transaction: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	trade, err := s.tradeRepo.GetByIDForUpdate(ctx, dbTx, tradeID)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("lock trade: %w", err))
	}
	if trade == nil {
		return "", apperror.ErrNotFound("Trade request")
	}
	if trade.Status.IsTerminal() {
		return ports.OutcomeAlreadySettled, nil
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, trade.UserID)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return "", apperror.ErrNotFound("User")
	}

	newBalance := user.BalanceNGN.Add(trade.AmountNGN)
	if err := s.userRepo.UpdateBalance(ctx, dbTx, user.ID, newBalance); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("credit balance: %w", err))
	}
	if err := s.tradeRepo.UpdateStatus(ctx, dbTx, trade.ID, domain.RequestStatusApproved); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("update trade status: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("commit transaction: %w", err))
	}

	s.log.Info().
		Str("trade_id", trade.ID.String()).
		Str("user_id", user.ID.String()).
		Str("amount_ngn", trade.AmountNGN.String()).
		Str("new_balance", newBalance.String()).
		Str("admin_id", caller.UserID.String()).
		Msg("trade approved")

	return ports.OutcomeApproved, nil
}

// RejectTrade marks the trade rejected. The balance is untouched.
func (s *SettlementServiceImpl) RejectTrade(ctx context.Context, caller domain.Caller, tradeID uuid.UUID) (ports.SettlementOutcome, error) {
	if !caller.IsAdmin() {
		return "", apperror.ErrForbidden()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("begin transaction: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	trade, err := s.tradeRepo.GetByIDForUpdate(ctx, dbTx, tradeID)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("lock trade: %w", err))
	}
	if trade == nil {
		return "", apperror.ErrNotFound("Trade request")
	}
	if trade.Status.IsTerminal() {
		return ports.OutcomeAlreadySettled, nil
	}

	if err := s.tradeRepo.UpdateStatus(ctx, dbTx, trade.ID, domain.RequestStatusRejected); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("update trade status: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("commit transaction: %w", err))
	}

	s.log.Info().
		Str("trade_id", trade.ID.String()).
		Str("admin_id", caller.UserID.String()).
		Msg("trade rejected")

	return ports.OutcomeRejected, nil
}

// ApproveWithdrawal debits the requested NGN amount and marks the
// withdrawal approved. The balance check happens here, under the row lock:
// the submission-time check was advisory only. A shortfall auto-rejects the
// request instead of failing the call, so the queue never wedges on a
// request the user can no longer afford.
func (s *SettlementServiceImpl) ApproveWithdrawal(ctx context.Context, caller domain.Caller, withdrawalID uuid.UUID) (ports.SettlementOutcome, error) {
	if !caller.IsAdmin() {
		return "", apperror.ErrForbidden()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("begin transaction: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	withdrawal, err := s.withdrawalRepo.GetByIDForUpdate(ctx, dbTx, withdrawalID)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("lock withdrawal: %w", err))
	}
	if withdrawal == nil {
		return "", apperror.ErrNotFound("Withdrawal request")
	}
	if withdrawal.Status.IsTerminal() {
		return ports.OutcomeAlreadySettled, nil
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, withdrawal.UserID)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return "", apperror.ErrNotFound("User")
	}

	if user.BalanceNGN.LessThan(withdrawal.AmountNGN) {
		if err := s.withdrawalRepo.UpdateStatus(ctx, dbTx, withdrawal.ID, domain.RequestStatusRejected); err != nil {
			return "", apperror.ErrStorageFailure(fmt.Errorf("update withdrawal status: %w", err))
		}
		if err := dbTx.Commit(ctx); err != nil {
			return "", apperror.ErrStorageFailure(fmt.Errorf("commit transaction: %w", err))
		}

		s.log.Warn().
			Str("withdrawal_id", withdrawal.ID.String()).
			Str("user_id", user.ID.String()).
			Str("amount_ngn", withdrawal.AmountNGN.String()).
			Str("balance_ngn", user.BalanceNGN.String()).
			Str("admin_id", caller.UserID.String()).
			Msg("withdrawal auto-rejected on insufficient balance")

		return ports.OutcomeInsufficientBalance, nil
	}

	newBalance := user.BalanceNGN.Sub(withdrawal.AmountNGN)
	if err := s.userRepo.UpdateBalance(ctx, dbTx, user.ID, newBalance); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("debit balance: %w", err))
	}
	if err := s.withdrawalRepo.UpdateStatus(ctx, dbTx, withdrawal.ID, domain.RequestStatusApproved); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("update withdrawal status: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("commit transaction: %w", err))
	}

	s.log.Info().
		Str("withdrawal_id", withdrawal.ID.String()).
		Str("user_id", user.ID.String()).
		Str("amount_ngn", withdrawal.AmountNGN.String()).
		Str("new_balance", newBalance.String()).
		Str("admin_id", caller.UserID.String()).
		Msg("withdrawal approved")

	return ports.OutcomeApproved, nil
}

// RejectWithdrawal marks the withdrawal rejected. The balance is untouched.
func (s *SettlementServiceImpl) RejectWithdrawal(ctx context.Context, caller domain.Caller, withdrawalID uuid.UUID) (ports.SettlementOutcome, error) {
	if !caller.IsAdmin() {
		return "", apperror.ErrForbidden()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("begin transaction: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	withdrawal, err := s.withdrawalRepo.GetByIDForUpdate(ctx, dbTx, withdrawalID)
	if err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("lock withdrawal: %w", err))
	}
	if withdrawal == nil {
		return "", apperror.ErrNotFound("Withdrawal request")
	}
	if withdrawal.Status.IsTerminal() {
		return ports.OutcomeAlreadySettled, nil
	}

	if err := s.withdrawalRepo.UpdateStatus(ctx, dbTx, withdrawal.ID, domain.RequestStatusRejected); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("update withdrawal status: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return "", apperror.ErrStorageFailure(fmt.Errorf("commit transaction: %w", err))
	}

	s.log.Info().
		Str("withdrawal_id", withdrawal.ID.String()).
		Str("admin_id", caller.UserID.String()).
		Msg("withdrawal rejected")

	return ports.OutcomeRejected, nil
}

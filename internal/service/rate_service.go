package service

import (
	"context"
	"fmt"
	"time"

	"paywave/internal/core/domain"
	"paywave/internal/core/ports"
	"paywave/pkg/apperror"

	"github.com/rs/zerolog"
)

// RateServiceImpl implements ports.RateService.
type RateServiceImpl struct {
	rateRepo ports.RateRepository
	log      zerolog.Logger
}

// NewRateService creates a new RateServiceImpl.
func NewRateService(rateRepo ports.RateRepository, log zerolog.Logger) *RateServiceImpl {
	return &RateServiceImpl{rateRepo: rateRepo, log: log}
}

// GetByMethod returns the rate row for a payment method.
func (s *RateServiceImpl) GetByMethod(ctx context.Context, method string) (*domain.Rate, error) {
	rate, err := s.rateRepo.GetByMethod(ctx, method)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("fetch rate: %w", err))
	}
	if rate == nil {
		return nil, apperror.ErrNotFound("Payment method")
	}
	return rate, nil
}

// List returns all rate rows, locked ones included.
func (s *RateServiceImpl) List(ctx context.Context) ([]domain.Rate, error) {
	rates, err := s.rateRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("list rates: %w", err))
	}
	return rates, nil
}

// BulkUpdate applies a batch of partial rate updates. Each record's fields
// are independently optional; a non-positive rate or an unknown status
// skips that field only. Records referencing unknown rows are counted as
// skipped. The batch never aborts part-way on bad values.
func (s *RateServiceImpl) BulkUpdate(ctx context.Context, caller domain.Caller, updates []ports.RateUpdate) (*ports.RateUpdateResult, error) {
	if !caller.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}

	result := &ports.RateUpdateResult{}

	for _, upd := range updates {
		rate, err := s.rateRepo.GetByID(ctx, upd.ID)
		if err != nil {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("fetch rate %s: %w", upd.ID, err))
		}
		if rate == nil {
			result.Skipped++
			continue
		}

		changed := false

		if upd.Rate != nil {
			if upd.Rate.IsPositive() {
				rate.NGNPerUSD = *upd.Rate
				changed = true
			} else {
				s.log.Warn().
					Str("rate_id", rate.ID.String()).
					Str("value", upd.Rate.String()).
					Msg("ignoring non-positive rate value in bulk update")
			}
		}
		if upd.Tag != nil {
			rate.Tag = *upd.Tag
			changed = true
		}
		if upd.Status != nil {
			switch domain.RateStatus(*upd.Status) {
			case domain.RateStatusActive, domain.RateStatusLocked:
				rate.Status = domain.RateStatus(*upd.Status)
				changed = true
			default:
				s.log.Warn().
					Str("rate_id", rate.ID.String()).
					Str("value", *upd.Status).
					Msg("ignoring unknown rate status in bulk update")
			}
		}

		if !changed {
			result.Skipped++
			continue
		}

		rate.UpdatedAt = time.Now().UTC()
		if err := s.rateRepo.Update(ctx, rate); err != nil {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("update rate %s: %w", rate.ID, err))
		}
		result.Applied++
	}

	s.log.Info().
		Str("admin_id", caller.UserID.String()).
		Int("applied", result.Applied).
		Int("skipped", result.Skipped).
		Msg("rate bulk update finished")

	return result, nil
}

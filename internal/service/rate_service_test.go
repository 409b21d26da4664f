package service

import (
	"context"
	"testing"

	"paywave/internal/core/domain"
	"paywave/internal/core/ports"
	"paywave/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type rateTestDeps struct {
	svc      *RateServiceImpl
	rateRepo *mocks.MockRateRepository
	ctrl     *gomock.Controller
}

func setupRateService(t *testing.T) *rateTestDeps {
	ctrl := gomock.NewController(t)
	d := &rateTestDeps{
		rateRepo: mocks.NewMockRateRepository(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewRateService(d.rateRepo, zerolog.Nop())
	return d
}

func adminCaller() domain.Caller {
	return domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func userCaller() domain.Caller {
	return domain.Caller{UserID: uuid.New(), Role: domain.RoleUser}
}

func strPtr(s string) *string { return &s }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// ==================== GetByMethod Tests ====================

func TestRateService_GetByMethod_Success(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	rate := &domain.Rate{
		ID:        uuid.New(),
		Method:    "Bitcoin",
		NGNPerUSD: decimal.NewFromInt(1300),
		Status:    domain.RateStatusActive,
	}

	d.rateRepo.EXPECT().GetByMethod(ctx, "Bitcoin").Return(rate, nil)

	got, err := d.svc.GetByMethod(ctx, "Bitcoin")
	require.NoError(t, err)
	assert.Equal(t, rate, got)
}

func TestRateService_GetByMethod_NotFound(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.rateRepo.EXPECT().GetByMethod(ctx, "Venmo").Return(nil, nil)

	got, err := d.svc.GetByMethod(ctx, "Venmo")
	assert.Nil(t, got)
	assertAppError(t, err, "REQ_001")
}

// ==================== BulkUpdate Tests ====================

func TestRateService_BulkUpdate_Forbidden(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	result, err := d.svc.BulkUpdate(context.Background(), userCaller(), []ports.RateUpdate{
		{ID: uuid.New(), Rate: decPtr(decimal.NewFromInt(1500))},
	})
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_004")
}

func TestRateService_BulkUpdate_AppliesFields(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	rateID := uuid.New()
	existing := &domain.Rate{
		ID:        rateID,
		Method:    "Zelle",
		NGNPerUSD: decimal.NewFromInt(1100),
		Tag:       "old-tag",
		Status:    domain.RateStatusActive,
	}

	d.rateRepo.EXPECT().GetByID(ctx, rateID).Return(existing, nil)
	d.rateRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, r *domain.Rate) error {
			assert.True(t, r.NGNPerUSD.Equal(decimal.NewFromInt(1250)))
			assert.Equal(t, "new-tag", r.Tag)
			assert.Equal(t, domain.RateStatusLocked, r.Status)
			assert.False(t, r.UpdatedAt.IsZero())
			return nil
		})

	result, err := d.svc.BulkUpdate(ctx, adminCaller(), []ports.RateUpdate{
		{
			ID:     rateID,
			Rate:   decPtr(decimal.NewFromInt(1250)),
			Tag:    strPtr("new-tag"),
			Status: strPtr("locked"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 0, result.Skipped)
}

func TestRateService_BulkUpdate_PartialFields(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	rateID := uuid.New()
	existing := &domain.Rate{
		ID:        rateID,
		Method:    "PayPal",
		NGNPerUSD: decimal.NewFromInt(1300),
		Tag:       "keep-me",
		Status:    domain.RateStatusActive,
	}

	d.rateRepo.EXPECT().GetByID(ctx, rateID).Return(existing, nil)
	d.rateRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, r *domain.Rate) error {
			assert.True(t, r.NGNPerUSD.Equal(decimal.NewFromInt(1350)))
			assert.Equal(t, "keep-me", r.Tag, "unsupplied fields keep their value")
			assert.Equal(t, domain.RateStatusActive, r.Status)
			return nil
		})

	result, err := d.svc.BulkUpdate(ctx, adminCaller(), []ports.RateUpdate{
		{ID: rateID, Rate: decPtr(decimal.NewFromInt(1350))},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
}

func TestRateService_BulkUpdate_SkipsUnknownRow(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	unknownID := uuid.New()

	d.rateRepo.EXPECT().GetByID(ctx, unknownID).Return(nil, nil)

	result, err := d.svc.BulkUpdate(ctx, adminCaller(), []ports.RateUpdate{
		{ID: unknownID, Rate: decPtr(decimal.NewFromInt(1000))},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, 1, result.Skipped)
}

func TestRateService_BulkUpdate_IgnoresBadValues(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	rateID := uuid.New()
	existing := &domain.Rate{
		ID:        rateID,
		Method:    "CashApp",
		NGNPerUSD: decimal.NewFromInt(1100),
		Status:    domain.RateStatusActive,
	}

	d.rateRepo.EXPECT().GetByID(ctx, rateID).Return(existing, nil)

	// Non-positive rate and unknown status both ignored; nothing changes,
	// so no Update call and the record counts as skipped.
	result, err := d.svc.BulkUpdate(ctx, adminCaller(), []ports.RateUpdate{
		{
			ID:     rateID,
			Rate:   decPtr(decimal.NewFromInt(-5)),
			Status: strPtr("frozen"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, 1, result.Skipped)
}

func TestRateService_BulkUpdate_MixedBatchNeverAborts(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	goodID := uuid.New()
	badID := uuid.New()

	d.rateRepo.EXPECT().GetByID(ctx, badID).Return(nil, nil)
	d.rateRepo.EXPECT().GetByID(ctx, goodID).Return(&domain.Rate{
		ID:        goodID,
		Method:    "Bitcoin",
		NGNPerUSD: decimal.NewFromInt(1300),
		Status:    domain.RateStatusActive,
	}, nil)
	d.rateRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	result, err := d.svc.BulkUpdate(ctx, adminCaller(), []ports.RateUpdate{
		{ID: badID, Rate: decPtr(decimal.NewFromInt(1200))},
		{ID: goodID, Rate: decPtr(decimal.NewFromInt(1400))},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Skipped)
}

package service

import (
	"context"
	"strings"
	"testing"

	"paywave/internal/core/domain"
	"paywave/internal/core/ports"
	"paywave/internal/core/ports/mocks"
	"paywave/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type tradeTestDeps struct {
	svc        *TradeServiceImpl
	tradeRepo  *mocks.MockTradeRepository
	rateRepo   *mocks.MockRateRepository
	proofStore *mocks.MockProofStore
	ctrl       *gomock.Controller
}

func setupTradeService(t *testing.T) *tradeTestDeps {
	ctrl := gomock.NewController(t)
	d := &tradeTestDeps{
		tradeRepo:  mocks.NewMockTradeRepository(ctrl),
		rateRepo:   mocks.NewMockRateRepository(ctrl),
		proofStore: mocks.NewMockProofStore(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewTradeService(d.tradeRepo, d.rateRepo, d.proofStore, zerolog.Nop())
	return d
}

func activeRate(method string, ngnPerUSD int64) *domain.Rate {
	return &domain.Rate{
		ID:        uuid.New(),
		Method:    method,
		NGNPerUSD: decimal.NewFromInt(ngnPerUSD),
		Status:    domain.RateStatusActive,
	}
}

// ==================== Submit Tests ====================

func TestTradeService_Submit_Success(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.rateRepo.EXPECT().GetByMethod(ctx, "Bitcoin").Return(activeRate("Bitcoin", 1300), nil)
	d.tradeRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, tr *domain.TradeRequest) error {
			assert.Equal(t, userID, tr.UserID)
			assert.Equal(t, "Bitcoin", tr.Method)
			assert.True(t, tr.AmountUSD.Equal(decimal.NewFromInt(100)))
			// 100 USD * 1300 NGN/USD, snapshotted at submit time
			assert.True(t, tr.AmountNGN.Equal(decimal.NewFromInt(130000)), "got %s", tr.AmountNGN)
			assert.Equal(t, domain.RequestStatusPending, tr.Status)
			assert.Nil(t, tr.ProofFile)
			return nil
		})

	trade, err := d.svc.Submit(ctx, userID, ports.TradeSubmission{
		Method:    "Bitcoin",
		AmountUSD: "100",
	})
	require.NoError(t, err)
	require.NotNil(t, trade)
	assert.Equal(t, domain.RequestStatusPending, trade.Status)
}

func TestTradeService_Submit_WithProof(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	upload := ports.ProofUpload{
		Filename: "receipt.png",
		Size:     1024,
		Content:  strings.NewReader("png-bytes"),
	}

	d.rateRepo.EXPECT().GetByMethod(ctx, "Zelle").Return(activeRate("Zelle", 1100), nil)
	d.proofStore.EXPECT().Save(userID, gomock.Any()).Return("stored-proof.png", nil)
	d.tradeRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, tr *domain.TradeRequest) error {
			require.NotNil(t, tr.ProofFile)
			assert.Equal(t, "stored-proof.png", *tr.ProofFile)
			return nil
		})

	trade, err := d.svc.Submit(ctx, userID, ports.TradeSubmission{
		Method:    "Zelle",
		AmountUSD: "50",
		Proof:     &upload,
	})
	require.NoError(t, err)
	require.NotNil(t, trade.ProofFile)
}

func TestTradeService_Submit_RoundsHalfUp(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rate := &domain.Rate{
		ID:        uuid.New(),
		Method:    "CashApp",
		NGNPerUSD: decimal.RequireFromString("1100.55"),
		Status:    domain.RateStatusActive,
	}

	d.rateRepo.EXPECT().GetByMethod(ctx, "CashApp").Return(rate, nil)
	d.tradeRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, tr *domain.TradeRequest) error {
			// 3.33 * 1100.55 = 3664.8315 -> 3664.83
			assert.True(t, tr.AmountNGN.Equal(decimal.RequireFromString("3664.83")), "got %s", tr.AmountNGN)
			return nil
		})

	_, err := d.svc.Submit(ctx, userID, ports.TradeSubmission{
		Method:    "CashApp",
		AmountUSD: "3.33",
	})
	require.NoError(t, err)
}

func TestTradeService_Submit_InvalidAmount(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	for _, amount := range []string{"", "abc", "0", "-10", "1e3x"} {
		_, err := d.svc.Submit(context.Background(), uuid.New(), ports.TradeSubmission{
			Method:    "Bitcoin",
			AmountUSD: amount,
		})
		assertAppError(t, err, "VAL_002")
	}
}

func TestTradeService_Submit_UnknownMethod(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.rateRepo.EXPECT().GetByMethod(ctx, "Venmo").Return(nil, nil)

	trade, err := d.svc.Submit(ctx, uuid.New(), ports.TradeSubmission{
		Method:    "Venmo",
		AmountUSD: "100",
	})
	assert.Nil(t, trade)
	assertAppError(t, err, "REQ_001")
}

func TestTradeService_Submit_LockedRate(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	locked := activeRate("PayPal", 1300)
	locked.Status = domain.RateStatusLocked

	d.rateRepo.EXPECT().GetByMethod(ctx, "PayPal").Return(locked, nil)

	trade, err := d.svc.Submit(ctx, uuid.New(), ports.TradeSubmission{
		Method:    "PayPal",
		AmountUSD: "100",
	})
	assert.Nil(t, trade)
	assertAppError(t, err, "RATE_001")
}

func TestTradeService_Submit_ProofStoreRejection(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	upload := ports.ProofUpload{Filename: "malware.exe", Size: 10}

	d.rateRepo.EXPECT().GetByMethod(ctx, "Bitcoin").Return(activeRate("Bitcoin", 1300), nil)
	d.proofStore.EXPECT().Save(userID, gomock.Any()).Return("", apperror.ErrInvalidFile("unsupported file type"))

	trade, err := d.svc.Submit(ctx, userID, ports.TradeSubmission{
		Method:    "Bitcoin",
		AmountUSD: "100",
		Proof:     &upload,
	})
	assert.Nil(t, trade)
	assertAppError(t, err, "VAL_003")
}

// ==================== ListByUser Tests ====================

func TestTradeService_ListByUser(t *testing.T) {
	d := setupTradeService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	trades := []domain.TradeRequest{
		{ID: uuid.New(), UserID: userID, Status: domain.RequestStatusApproved},
		{ID: uuid.New(), UserID: userID, Status: domain.RequestStatusPending},
	}

	d.tradeRepo.EXPECT().ListByUser(ctx, userID).Return(trades, nil)

	got, err := d.svc.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

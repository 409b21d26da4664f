package handler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"paywave/internal/adapter/http/dto"
	"paywave/internal/adapter/http/middleware"
	"paywave/internal/core/domain"
	"paywave/internal/core/ports"
	"paywave/pkg/apperror"
	"paywave/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminHandler handles rate management, settlement, and the proof
// download route. Every route it serves sits behind the admin-only
// middleware.
type AdminHandler struct {
	settlementSvc  ports.SettlementService
	rateSvc        ports.RateService
	userRepo       ports.UserRepository
	tradeRepo      ports.TradeRepository
	withdrawalRepo ports.WithdrawalRepository
	proofStore     ports.ProofStore
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	settlementSvc ports.SettlementService,
	rateSvc ports.RateService,
	userRepo ports.UserRepository,
	tradeRepo ports.TradeRepository,
	withdrawalRepo ports.WithdrawalRepository,
	proofStore ports.ProofStore,
) *AdminHandler {
	return &AdminHandler{
		settlementSvc:  settlementSvc,
		rateSvc:        rateSvc,
		userRepo:       userRepo,
		tradeRepo:      tradeRepo,
		withdrawalRepo: withdrawalRepo,
		proofStore:     proofStore,
	}
}

// Overview handles GET /api/v1/admin/overview: both pending settlement
// queues, all accounts, and the published rates.
func (h *AdminHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.userRepo.List(ctx)
	if err != nil {
		response.Error(c, apperror.ErrStorageFailure(err))
		return
	}
	rates, err := h.rateSvc.List(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	pendingTrades, err := h.tradeRepo.ListByStatus(ctx, domain.RequestStatusPending)
	if err != nil {
		response.Error(c, apperror.ErrStorageFailure(err))
		return
	}
	pendingWithdrawals, err := h.withdrawalRepo.ListByStatus(ctx, domain.RequestStatusPending)
	if err != nil {
		response.Error(c, apperror.ErrStorageFailure(err))
		return
	}

	response.OK(c, dto.AdminOverviewResponse{
		Users:              userViews(users),
		Rates:              rateViews(rates),
		PendingTrades:      tradeViews(pendingTrades),
		PendingWithdrawals: withdrawalViews(pendingWithdrawals),
	})
}

// UpdateRates handles PUT /api/v1/admin/rates. Each record is applied
// independently; malformed rows are counted as skipped, never abort the
// batch.
func (h *AdminHandler) UpdateRates(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.RateBulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidInput(err.Error()))
		return
	}

	updates := make([]ports.RateUpdate, 0, len(req.Rates))
	skipped := 0
	for _, rec := range req.Rates {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			skipped++
			continue
		}
		update := ports.RateUpdate{ID: id, Tag: rec.Tag, Status: rec.Status}
		if rec.Rate != nil {
			d, err := decimal.NewFromString(strings.TrimSpace(*rec.Rate))
			if err != nil {
				skipped++
				continue
			}
			update.Rate = &d
		}
		updates = append(updates, update)
	}

	result, err := h.rateSvc.BulkUpdate(c.Request.Context(), caller, updates)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, dto.RateBulkUpdateResponse{
		Applied: result.Applied,
		Skipped: result.Skipped + skipped,
	}, "Rates updated")
}

// ApproveTrade handles POST /api/v1/admin/trades/:id/approve.
func (h *AdminHandler) ApproveTrade(c *gin.Context) {
	h.settle(c, h.settlementSvc.ApproveTrade)
}

// RejectTrade handles POST /api/v1/admin/trades/:id/reject.
func (h *AdminHandler) RejectTrade(c *gin.Context) {
	h.settle(c, h.settlementSvc.RejectTrade)
}

// ApproveWithdrawal handles POST /api/v1/admin/withdrawals/:id/approve.
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	h.settle(c, h.settlementSvc.ApproveWithdrawal)
}

// RejectWithdrawal handles POST /api/v1/admin/withdrawals/:id/reject.
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	h.settle(c, h.settlementSvc.RejectWithdrawal)
}

// settle runs one settlement operation and maps its outcome onto the
// response category: approved/rejected are plain successes, an
// already-settled request is an informational no-op, and a withdrawal
// auto-rejected for insufficient balance is a warning.
func (h *AdminHandler) settle(c *gin.Context, op func(context.Context, domain.Caller, uuid.UUID) (ports.SettlementOutcome, error)) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput("Malformed request id"))
		return
	}

	outcome, err := op(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	data := dto.SettlementResponse{ID: id.String(), Outcome: string(outcome)}
	switch outcome {
	case ports.OutcomeApproved:
		response.OKMessage(c, data, "Request approved")
	case ports.OutcomeRejected:
		response.OKMessage(c, data, "Request rejected")
	case ports.OutcomeAlreadySettled:
		response.Info(c, data, "Request was already settled")
	case ports.OutcomeInsufficientBalance:
		response.Warning(c, data, "Withdrawal rejected: insufficient balance at approval time")
	default:
		response.OK(c, data)
	}
}

// DownloadProof handles GET /uploads/:name, streaming a stored
// proof-of-payment file.
func (h *AdminHandler) DownloadProof(c *gin.Context) {
	rc, err := h.proofStore.Open(c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close() //nolint:errcheck

	contentType := mime.TypeByExtension(filepath.Ext(c.Param("name")))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

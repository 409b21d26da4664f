package handler

import (
	"paywave/internal/adapter/http/dto"
	"paywave/internal/adapter/http/middleware"
	"paywave/internal/core/ports"
	"paywave/pkg/apperror"
	"paywave/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the authenticated account overview.
type DashboardHandler struct {
	userRepo      ports.UserRepository
	rateSvc       ports.RateService
	tradeSvc      ports.TradeService
	withdrawalSvc ports.WithdrawalService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	userRepo ports.UserRepository,
	rateSvc ports.RateService,
	tradeSvc ports.TradeService,
	withdrawalSvc ports.WithdrawalService,
) *DashboardHandler {
	return &DashboardHandler{
		userRepo:      userRepo,
		rateSvc:       rateSvc,
		tradeSvc:      tradeSvc,
		withdrawalSvc: withdrawalSvc,
	}
}

// GetDashboard handles GET /api/v1/dashboard: the caller's profile and
// balance, published rates, and the caller's own request history.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	ctx := c.Request.Context()

	user, err := h.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		response.Error(c, apperror.ErrStorageFailure(err))
		return
	}
	if user == nil {
		response.Error(c, apperror.ErrNotFound("Account"))
		return
	}

	rates, err := h.rateSvc.List(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	trades, err := h.tradeSvc.ListByUser(ctx, caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	withdrawals, err := h.withdrawalSvc.ListByUser(ctx, caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DashboardResponse{
		User:        userView(user),
		Rates:       rateViews(rates),
		Trades:      tradeViews(trades),
		Withdrawals: withdrawalViews(withdrawals),
	})
}

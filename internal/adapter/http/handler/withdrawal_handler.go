package handler

import (
	"paywave/internal/adapter/http/dto"
	"paywave/internal/adapter/http/middleware"
	"paywave/internal/core/ports"
	"paywave/pkg/apperror"
	"paywave/pkg/response"

	"github.com/gin-gonic/gin"
)

// WithdrawalHandler handles withdrawal request endpoints.
type WithdrawalHandler struct {
	withdrawalSvc ports.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalSvc ports.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc}
}

// Submit handles POST /api/v1/withdrawals.
func (h *WithdrawalHandler) Submit(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidInput(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	withdrawal, err := h.withdrawalSvc.Submit(c.Request.Context(), caller.UserID, ports.WithdrawalSubmission{
		PayeeName: req.Name,
		Bank:      req.Bank,
		Account:   req.Account,
		AmountNGN: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CreatedMessage(c, withdrawalView(withdrawal), "Withdrawal request submitted, awaiting review")
}

// List handles GET /api/v1/withdrawals, returning the caller's own requests.
func (h *WithdrawalHandler) List(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	withdrawals, err := h.withdrawalSvc.ListByUser(c.Request.Context(), caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, withdrawalViews(withdrawals))
}

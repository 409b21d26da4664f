package handler

import (
	"errors"
	"net/http"

	"paywave/internal/adapter/http/middleware"
	"paywave/internal/core/ports"
	"paywave/pkg/apperror"
	"paywave/pkg/response"

	"github.com/gin-gonic/gin"
)

// TradeHandler handles deposit request endpoints.
type TradeHandler struct {
	tradeSvc ports.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc ports.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// Submit handles POST /api/v1/trades. The body is multipart form data:
// method, amount, and an optional proof file.
func (h *TradeHandler) Submit(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	submission := ports.TradeSubmission{
		Method:    c.PostForm("method"),
		AmountUSD: c.PostForm("amount"),
	}
	if submission.Method == "" {
		response.Error(c, apperror.ErrInvalidInput("Payment method is required"))
		return
	}

	fileHeader, err := c.FormFile("proof")
	switch {
	case err == nil:
		f, openErr := fileHeader.Open()
		if openErr != nil {
			response.Error(c, apperror.ErrInvalidFile("unreadable upload"))
			return
		}
		defer f.Close() //nolint:errcheck
		submission.Proof = &ports.ProofUpload{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			Content:  f,
		}
	case errors.Is(err, http.ErrMissingFile):
		// Proof is optional at submission time.
	default:
		response.Error(c, apperror.ErrInvalidFile("malformed upload"))
		return
	}

	trade, err := h.tradeSvc.Submit(c.Request.Context(), caller.UserID, submission)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CreatedMessage(c, tradeView(trade), "Trade request submitted, awaiting review")
}

// List handles GET /api/v1/trades, returning the caller's own requests.
func (h *TradeHandler) List(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	trades, err := h.tradeSvc.ListByUser(c.Request.Context(), caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, tradeViews(trades))
}

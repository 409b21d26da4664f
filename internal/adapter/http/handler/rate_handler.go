package handler

import (
	"errors"
	"net/http"

	"paywave/internal/adapter/http/dto"
	"paywave/internal/core/ports"
	"paywave/pkg/apperror"
	"paywave/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateHandler serves public rate lookups.
type RateHandler struct {
	rateSvc ports.RateService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateSvc ports.RateService) *RateHandler {
	return &RateHandler{rateSvc: rateSvc}
}

// GetRate handles GET /api/v1/rates/:method. The response shape is the
// legacy rate-info contract: {ok, rate, tag, status}, or {ok:false} for
// an unknown method, without the standard envelope.
func (h *RateHandler) GetRate(c *gin.Context) {
	rate, err := h.rateSvc.GetByMethod(c.Request.Context(), c.Param("method"))
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == "REQ_001" {
			c.JSON(http.StatusOK, dto.RateInfoResponse{OK: false})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RateInfoResponse{
		OK:     true,
		Rate:   rate.NGNPerUSD.String(),
		Tag:    rate.Tag,
		Status: string(rate.Status),
	})
}

package response

import (
	"errors"
	"net/http"
	"time"

	"paywave/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Message categories shown to the user, mirroring flash levels.
const (
	CategoryInfo    = "info"
	CategorySuccess = "success"
	CategoryWarning = "warning"
	CategoryDanger  = "danger"
)

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	Message   string      `json:"message,omitempty"`
	Category  string      `json:"category"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Category  string `json:"category"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	okWith(c, data, "", CategorySuccess)
}

// OKMessage sends a 200 response with data and a user-visible message.
func OKMessage(c *gin.Context, data interface{}, message string) {
	okWith(c, data, message, CategorySuccess)
}

// Info sends a 200 response for operations that were accepted but changed
// nothing (e.g. settling an already-settled request).
func Info(c *gin.Context, data interface{}, message string) {
	okWith(c, data, message, CategoryInfo)
}

// Warning sends a 200 response for operations that completed with a
// non-success outcome (e.g. a withdrawal auto-rejected at approval time).
func Warning(c *gin.Context, data interface{}, message string) {
	okWith(c, data, message, CategoryWarning)
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		Category:  CategorySuccess,
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// CreatedMessage sends a 201 response with data and a user-visible message.
func CreatedMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		Message:   message,
		Category:  CategorySuccess,
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			ErrorCode: appErr.Code,
			Message:   appErr.Message,
			Category:  categoryFor(appErr),
			RequestID: getRequestID(c),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	// Unknown error -> 500
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: "SYS_000",
		Message:   "Internal server error",
		Category:  CategoryDanger,
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func okWith(c *gin.Context, data interface{}, message, category string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		Message:   message,
		Category:  category,
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// categoryFor maps recoverable shortfalls to warning, everything else to danger.
func categoryFor(appErr *apperror.AppError) string {
	switch appErr.HTTPStatus {
	case http.StatusPaymentRequired, http.StatusTooManyRequests:
		return CategoryWarning
	default:
		return CategoryDanger
	}
}

// getRequestID retrieves request ID from context, or generates one.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}

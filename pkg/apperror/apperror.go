package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Input Validation (VAL) ----

// ErrInvalidInput reports malformed or missing form fields.
func ErrInvalidInput(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_002", "Amount must be a positive number", http.StatusBadRequest)
}

func ErrInvalidFile(reason string) *AppError {
	return New("VAL_003", fmt.Sprintf("Invalid proof file: %s", reason), http.StatusBadRequest)
}

// ---- Authentication & Authorization (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid email or password", http.StatusUnauthorized)
}

func ErrDuplicateEmail() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired session", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_004", "Administrator access required", http.StatusForbidden)
}

// ---- Requests & Rates (REQ / RATE) ----

func ErrNotFound(entity string) *AppError {
	return New("REQ_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrRateLocked(method string) *AppError {
	return New("RATE_001", fmt.Sprintf("Payment method %s is locked", method), http.StatusUnprocessableEntity)
}

// ---- Balance (BAL) ----

func ErrInsufficientBalance() *AppError {
	return New("BAL_001", "Insufficient balance", http.StatusPaymentRequired)
}

// ---- Rate Limiting (RL) ----

func ErrRateLimitExceeded() *AppError {
	return New("RL_001", "Too many attempts, try again later", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// ErrStorageFailure wraps an underlying persistence error. Fatal to the
// request: the surrounding transaction aborts, nothing is half-applied.
func ErrStorageFailure(err error) *AppError {
	return Wrap("SYS_001", "Internal storage error", http.StatusInternalServerError, err)
}

// InternalError wraps any internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

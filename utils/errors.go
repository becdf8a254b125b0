package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// GatewayError is the error shape every handler-level failure is reduced to
// before it crosses the router boundary. Code is a stable machine-readable
// identifier; Status is the HTTP status the envelope is written with.
type GatewayError struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *GatewayError) Error() string {
	return e.Message
}

// Is makes sentinel matching work through fmt.Errorf wrapping: two gateway
// errors are the same error when their codes match.
func (e *GatewayError) Is(target error) bool {
	var ge *GatewayError
	if !errors.As(target, &ge) {
		return false
	}
	return e.Code == ge.Code
}

func NewGatewayError(code string, status int, message string) *GatewayError {
	return &GatewayError{
		Code:    code,
		Status:  status,
		Message: message,
	}
}

var (
	ErrMissingCredential  = NewGatewayError("MISSING_CREDENTIAL", http.StatusUnauthorized, "API key is required")
	ErrInvalidCredential  = NewGatewayError("INVALID_CREDENTIAL", http.StatusUnauthorized, "API key is not valid")
	ErrInactiveCredential = NewGatewayError("INACTIVE_CREDENTIAL", http.StatusUnauthorized, "API key is not active for this gateway")
	ErrPermissionDenied   = NewGatewayError("PERMISSION_DENIED", http.StatusForbidden, "Permission denied")
	ErrRateLimitExceeded  = NewGatewayError("RATE_LIMIT_EXCEEDED", http.StatusTooManyRequests, "Rate limit exceeded")
	ErrValidation         = NewGatewayError("VALIDATION_ERROR", http.StatusBadRequest, "Invalid request")
	ErrOutOfStock         = NewGatewayError("OUT_OF_STOCK", http.StatusBadRequest, "Insufficient stock for requested quantity")
	ErrInsufficientFunds  = NewGatewayError("INSUFFICIENT_BALANCE", http.StatusBadRequest, "Wallet balance is insufficient")
	ErrConflict           = NewGatewayError("CONFLICT", http.StatusConflict, "Concurrent update conflict, retry the request")
	ErrNotFound           = NewGatewayError("NOT_FOUND", http.StatusNotFound, "Resource not found")
	ErrInternal           = NewGatewayError("INTERNAL_ERROR", http.StatusInternalServerError, "Internal server error")
)

// PermissionError names the specific (domain, action) pair that was denied
// so integrators can see exactly which grant their key is missing.
func PermissionError(domain, action string) *GatewayError {
	return &GatewayError{
		Code:    ErrPermissionDenied.Code,
		Status:  ErrPermissionDenied.Status,
		Message: fmt.Sprintf("permission denied: %s.%s", domain, action),
		Details: fmt.Sprintf("%s.%s", domain, action),
	}
}

// RateLimitError names the window that was exhausted.
func RateLimitError(window string) *GatewayError {
	return &GatewayError{
		Code:    ErrRateLimitExceeded.Code,
		Status:  ErrRateLimitExceeded.Status,
		Message: fmt.Sprintf("rate limit exceeded for %s window", window),
		Details: window,
	}
}

func ValidationError(message string) *GatewayError {
	return &GatewayError{
		Code:    ErrValidation.Code,
		Status:  ErrValidation.Status,
		Message: message,
	}
}

// AsGatewayError reduces any error to a GatewayError, collapsing unknown
// failures to the opaque internal error so no store or network detail leaks
// to callers.
func AsGatewayError(err error) *GatewayError {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge
	}
	return ErrInternal
}

// Retryable reports whether the caller can safely replay the same request.
// Only guarded-transaction conflicts qualify; other 4xx errors require a
// changed request.
func Retryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

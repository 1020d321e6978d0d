package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")

	// Precondition errors. These are named so the console can render a
	// precise message; they are never retried automatically.
	ErrWalletFrozen        = errors.New("wallet is frozen")
	ErrAccountNotActive    = errors.New("account is not active")
	ErrAccountBanned       = errors.New("account is banned")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimum        = errors.New("amount below minimum withdrawal")
	ErrAlreadyDecided      = errors.New("moderation case already decided")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrModerationBlocked   = errors.New("blocked by moderation")
	ErrNotAccruable        = errors.New("template cannot accrue earnings")

	// ErrConflict is a lost compare-and-swap race. Engines retry a bounded
	// number of times before surfacing it.
	ErrConflict = errors.New("concurrent modification conflict")
)

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// StatusFor maps a domain error to its HTTP status. Precondition failures
// map to 422 so the console can distinguish them from plain validation.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrWalletFrozen),
		errors.Is(err, ErrAccountNotActive),
		errors.Is(err, ErrAccountBanned),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrBelowMinimum),
		errors.Is(err, ErrAlreadyDecided),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrModerationBlocked),
		errors.Is(err, ErrNotAccruable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// CodeFor returns the machine-readable error code for a domain error.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrWalletFrozen):
		return "WALLET_FROZEN"
	case errors.Is(err, ErrAccountNotActive):
		return "ACCOUNT_NOT_ACTIVE"
	case errors.Is(err, ErrAccountBanned):
		return "ACCOUNT_BANNED"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrBelowMinimum):
		return "BELOW_MINIMUM"
	case errors.Is(err, ErrAlreadyDecided):
		return "ALREADY_DECIDED"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrModerationBlocked):
		return "MODERATION_BLOCKED"
	case errors.Is(err, ErrNotAccruable):
		return "NOT_ACCRUABLE"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrAlreadyExists):
		return "ALREADY_EXISTS"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	}
	return "INTERNAL"
}

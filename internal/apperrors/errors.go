package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrUnsupportedCurrency indicates a currency code outside the supported set.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ErrInvalidAmount indicates a non-finite or otherwise unusable monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInvalidInvestment indicates an investment request that fails validation (non-positive amount, bad currency).
var ErrInvalidInvestment = errors.New("invalid investment")

// ErrOversold indicates a token purchase that would exceed the property's available tokens.
var ErrOversold = errors.New("property tokens oversold")

// ErrRateFeedUnavailable indicates the external exchange rate feed could not supply a usable snapshot.
var ErrRateFeedUnavailable = errors.New("rate feed unavailable")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// AppError carries an HTTP-ish status code alongside a message and wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Package errors provides the error types shared by release backends.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Errors backends wrap with provider-specific context.
var (
	// ErrUnauthorized is returned when the API token is invalid or expired.
	ErrUnauthorized = NewBaseError(ErrorCodeUnauthorized, "token unauthorized or expired")

	// ErrForbidden is returned when the token lacks access to the project.
	ErrForbidden = NewBaseError(ErrorCodeForbidden, "access to project forbidden")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = NewBaseError(ErrorCodeRateLimited, "api rate limit exceeded")

	// ErrNetworkError is returned for network-related errors.
	ErrNetworkError = NewBaseError(ErrorCodeNetworkError, "network error")

	// ErrNotFound is returned when the project or its releases do not exist.
	ErrNotFound = NewBaseError(ErrorCodeNotFound, "project not found")

	// ErrInvalidReference is returned for a malformed owner, repo or project.
	ErrInvalidReference = NewBaseError(ErrorCodeInvalidReference, "invalid project reference")
)

// ErrorCode categorizes provider errors.
type ErrorCode int

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeRateLimited
	ErrorCodeNetworkError
	ErrorCodeNotFound
	ErrorCodeInvalidReference
)

// BaseError is a typed error that can be identified by code.
type BaseError struct {
	Msg  string
	Code ErrorCode
}

func (e *BaseError) Error() string {
	return e.Msg
}

// NewBaseError creates a new BaseError with the given code and message.
func NewBaseError(code ErrorCode, msg string) error {
	return &BaseError{Code: code, Msg: msg}
}

// CodeOf returns the code of the first BaseError in err's chain.
func CodeOf(err error) ErrorCode {
	var base *BaseError
	if errors.As(err, &base) {
		return base.Code
	}

	return ErrorCodeUnknown
}

// ProviderError wraps an error with provider name for better error messages.
type ProviderError struct {
	Err      error
	Provider string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps an error with provider context.
func NewProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}

	return &ProviderError{Provider: provider, Err: err}
}

// Wrap classifies an API failure by its HTTP status and wraps it with the
// provider name. statusCode is 0 when no response was received. Context
// cancellation is passed through unchanged.
func Wrap(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var base error
	switch statusCode {
	case http.StatusUnauthorized:
		base = ErrUnauthorized
	case http.StatusForbidden:
		base = ErrForbidden
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusTooManyRequests:
		base = ErrRateLimited
	case 0:
		var netErr net.Error
		if errors.As(err, &netErr) {
			base = ErrNetworkError
		}
	}

	if base == nil {
		return NewProviderError(provider, err)
	}

	return NewProviderError(provider, fmt.Errorf("%w: %w", base, err))
}

// IsUnauthorized returns true if err is or wraps ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRateLimited returns true if err is or wraps ErrRateLimited.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsNetworkError returns true if err is or wraps ErrNetworkError.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetworkError)
}

// IsNotFound returns true if err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

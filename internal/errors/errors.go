package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a pokemenu error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // upstream status (usually 404)
	ErrNotFetched        ErrorCode = "NOT_FETCHED"        // 409
	ErrImageUnavailable  ErrorCode = "IMAGE_UNAVAILABLE"  // upstream status
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE" // 502
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// PokeError represents a structured error with code, status, and details.
type PokeError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PokeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PokeError {
	return &PokeError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates an error for a Pokémon lookup the API did not answer
// with a success status. status is the HTTP status the API returned.
func NewNotFound(identifier string, status int) *PokeError {
	return &PokeError{
		Code:    ErrNotFound,
		Status:  status,
		Message: fmt.Sprintf("pokemon not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNotFetched creates a 409 error for printing a record whose info has not
// been fetched under its current display name.
func NewNotFetched(name string) *PokeError {
	return &PokeError{
		Code:    ErrNotFetched,
		Status:  409,
		Message: fmt.Sprintf("no fetched info for %q", name),
		Details: map[string]any{"name": name},
	}
}

// NewImageUnavailable creates an error for a sprite that could not be loaded.
func NewImageUnavailable(url string, status int, msg string) *PokeError {
	return &PokeError{
		Code:    ErrImageUnavailable,
		Status:  status,
		Message: msg,
		Details: map[string]any{"url": url},
	}
}

// NewMalformedResponse creates a 502 error for an API payload missing expected fields.
func NewMalformedResponse(msg string) *PokeError {
	return &PokeError{
		Code:    ErrMalformedResponse,
		Status:  502,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PokeError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PokeError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if err (or anything it wraps) is a PokeError with the given code.
func Is(err error, code ErrorCode) bool {
	var pErr *PokeError
	if stderrors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}

// As returns the PokeError in err's chain, if any.
func As(err error) (*PokeError, bool) {
	var pErr *PokeError
	ok := stderrors.As(err, &pErr)
	return pErr, ok
}

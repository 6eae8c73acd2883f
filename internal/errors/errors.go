package errors

import "fmt"

// ErrorCode represents an Arcana error code.
type ErrorCode string

const (
	ErrInvalidKey          ErrorCode = "INVALID_KEY"           // 400
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"       // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"             // 404
	ErrCatalogTooSmall     ErrorCode = "CATALOG_TOO_SMALL"     // 422
	ErrStoreUnavailable    ErrorCode = "STORE_UNAVAILABLE"     // 503
	ErrStorePersistFailure ErrorCode = "STORE_PERSIST_FAILURE" // 502
	ErrInternal            ErrorCode = "INTERNAL"              // 500
)

// ArcanaError represents a structured error with code, status, and details.
type ArcanaError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ArcanaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidKey creates a 400 error for an empty or malformed draw key.
// Raised by local validation before any store access.
func NewInvalidKey(msg string) *ArcanaError {
	return &ArcanaError{
		Code:    ErrInvalidKey,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ArcanaError {
	return &ArcanaError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a stored draw cannot be found.
func NewNotFound(identity, day string) *ArcanaError {
	return &ArcanaError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("no draw stored for %q on %s", identity, day),
		Details: map[string]any{"identity": identity, "day": day},
	}
}

// NewCatalogTooSmall creates a 422 error when the requested draw count
// exceeds the deck size. This is a configuration error, fatal to the call.
func NewCatalogTooSmall(count, deckSize int) *ArcanaError {
	return &ArcanaError{
		Code:    ErrCatalogTooSmall,
		Status:  422,
		Message: fmt.Sprintf("draw count %d exceeds deck size %d", count, deckSize),
		Details: map[string]any{"count": count, "deck_size": deckSize},
	}
}

// NewStoreUnavailable creates a 503 error for a backing-store read failure.
// Not retried internally; retry policy belongs to the caller.
func NewStoreUnavailable(err error) *ArcanaError {
	msg := "backing store unavailable"
	if err != nil {
		msg = fmt.Sprintf("backing store unavailable: %v", err)
	}
	return &ArcanaError{
		Code:    ErrStoreUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewStorePersistFailure creates a 502 error for a write failure after a
// successful compute. Callers surfacing this still hold a valid draw.
func NewStorePersistFailure(err error) *ArcanaError {
	msg := "failed to persist computed draw"
	if err != nil {
		msg = fmt.Sprintf("failed to persist computed draw: %v", err)
	}
	return &ArcanaError{
		Code:    ErrStorePersistFailure,
		Status:  502,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ArcanaError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ArcanaError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an ArcanaError with the given code.
func Is(err error, code ErrorCode) bool {
	if aErr, ok := err.(*ArcanaError); ok {
		return aErr.Code == code
	}
	return false
}

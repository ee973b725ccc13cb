package errors

import "fmt"

// ErrorCode represents an AnkiLive error code.
type ErrorCode string

const (
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"     // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrEmptyDeck        ErrorCode = "EMPTY_DECK"        // 409
	ErrCaptureCancelled ErrorCode = "CAPTURE_CANCELLED" // 499 (user-initiated, not reported)
	ErrCaptureFailed    ErrorCode = "CAPTURE_FAILED"    // 502
	ErrStorage          ErrorCode = "STORAGE"           // 500
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// AppError represents a structured error with code, status, and details.
type AppError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidInput creates a 400 error for invalid user input.
// These are recoverable: the caller re-prompts rather than aborting.
func NewInvalidInput(msg string) *AppError {
	return &AppError{
		Code:    ErrInvalidInput,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a card cannot be found.
func NewNotFound(id string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("card not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewEmptyDeck creates a 409 error for exporting with no cards.
func NewEmptyDeck(deckName string) *AppError {
	return &AppError{
		Code:    ErrEmptyDeck,
		Status:  409,
		Message: fmt.Sprintf("deck %q has no cards to export", deckName),
		Details: map[string]any{"deck": deckName},
	}
}

// NewCaptureCancelled marks a user-aborted screen selection.
// Callers absorb this silently; it is not surfaced as a failure.
func NewCaptureCancelled() *AppError {
	return &AppError{
		Code:    ErrCaptureCancelled,
		Status:  499,
		Message: "screenshot selection cancelled",
	}
}

// NewCaptureFailed creates an error for a broken capture environment
// (tool missing, permission denied, empty output).
func NewCaptureFailed(msg string) *AppError {
	return &AppError{
		Code:    ErrCaptureFailed,
		Status:  502,
		Message: msg,
	}
}

// NewStorage wraps an I/O failure from the card store. The operation is
// aborted and reported; the process keeps running.
func NewStorage(err error) *AppError {
	msg := "storage error"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{
		Code:    ErrStorage,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *AppError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	if aErr, ok := err.(*AppError); ok {
		return aErr.Code == code
	}
	return false
}

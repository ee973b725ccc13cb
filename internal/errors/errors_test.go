package errors

import (
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := &AppError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "card not found",
	}

	expected := "NOT_FOUND: card not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidInput(t *testing.T) {
	err := NewInvalidInput("question must not be blank")

	if err.Code != ErrInvalidInput {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidInput)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "question must not be blank" {
		t.Errorf("Message = %q, want %q", err.Message, "question must not be blank")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01J9ABCDEF")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["id"] != "01J9ABCDEF" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "01J9ABCDEF")
	}
}

func TestNewEmptyDeck(t *testing.T) {
	err := NewEmptyDeck("AnkiLive")

	if err.Code != ErrEmptyDeck {
		t.Errorf("Code = %q, want %q", err.Code, ErrEmptyDeck)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["deck"] != "AnkiLive" {
		t.Errorf("Details[deck] = %v, want %q", err.Details["deck"], "AnkiLive")
	}
}

func TestNewCaptureCancelled(t *testing.T) {
	err := NewCaptureCancelled()

	if err.Code != ErrCaptureCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCaptureCancelled)
	}
}

func TestNewCaptureFailed(t *testing.T) {
	err := NewCaptureFailed("gnome-screenshot is not installed")

	if err.Code != ErrCaptureFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrCaptureFailed)
	}
	if err.Message != "gnome-screenshot is not installed" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewStorage(t *testing.T) {
	err := NewStorage(fmt.Errorf("disk full"))

	if err.Code != ErrStorage {
		t.Errorf("Code = %q, want %q", err.Code, ErrStorage)
	}
	if err.Message != "disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "disk full")
	}
}

func TestNewStorage_NilError(t *testing.T) {
	err := NewStorage(nil)

	if err.Message != "storage error" {
		t.Errorf("Message = %q, want %q", err.Message, "storage error")
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("something broke"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{
			name: "matching code",
			err:  NewNotFound("x"),
			code: ErrNotFound,
			want: true,
		},
		{
			name: "different code",
			err:  NewNotFound("x"),
			code: ErrEmptyDeck,
			want: false,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("plain"),
			code: ErrInternal,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			code: ErrInternal,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

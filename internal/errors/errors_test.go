package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, ErrCodeInternal, "save failed")

	if got := err.Error(); got != "save failed: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if Wrap(nil, ErrCodeInternal, "x") != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"not found", NotFound("listing not found"), IsNotFound},
		{"conflict", Conflict("already exists"), IsConflict},
		{"validation", Validation("bad"), IsValidation},
		{"forbidden", Forbidden("no"), IsForbidden},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("inner")), IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.is(tt.err) {
				t.Errorf("predicate failed for %v", tt.err)
			}
		})
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("plain errors carry no code")
	}
}

func TestInvalid(t *testing.T) {
	if Invalid(nil) != nil {
		t.Fatal("Invalid(nil) should be nil")
	}
	err := Invalid(errors.New("title is required and cannot be empty"))
	if !IsValidation(err) {
		t.Fatalf("expected validation, got %v", GetCode(err))
	}
	if PublicMessage(err) != "title is required and cannot be empty" {
		t.Errorf("message = %q", PublicMessage(err))
	}
}

func TestGetCodeAndField(t *testing.T) {
	err := &AppError{Code: ErrCodeValidation, Message: "bad", Field: "email"}
	if GetCode(err) != ErrCodeValidation || GetField(err) != "email" {
		t.Errorf("got code=%q field=%q", GetCode(err), GetField(err))
	}
	if GetCode(errors.New("x")) != "" || GetField(errors.New("x")) != "" {
		t.Error("non-AppError should report empty code and field")
	}
}

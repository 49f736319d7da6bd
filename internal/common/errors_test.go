package common

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError_AddAndFields(t *testing.T) {
	e := NewValidationError("username", "This username is already taken.")
	e.Add("email", "This email is already registered.")
	e.Add("email", "Enter a valid email address.")

	if len(e.Fields["username"]) != 1 {
		t.Fatalf("expected 1 username message, got %d", len(e.Fields["username"]))
	}
	if len(e.Fields["email"]) != 2 {
		t.Fatalf("expected 2 email messages, got %d", len(e.Fields["email"]))
	}
	if e.Empty() {
		t.Fatalf("expected non-empty validation error")
	}
}

func TestValidationError_ErrorStringIsStable(t *testing.T) {
	e := &ValidationError{}
	e.Add("title", "task with this title already exists.")
	e.Add("category", "category does not exist")

	msg := e.Error()
	// fields are sorted, so category comes first
	if !strings.HasPrefix(msg, "validation error: category:") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if !strings.Contains(msg, "title: task with this title already exists.") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestValidationError_MatchableWithAs(t *testing.T) {
	var err error = NewValidationError("name", "required")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected errors.As to match *ValidationError")
	}
	if ve.Fields["name"][0] != "required" {
		t.Fatalf("unexpected fields: %+v", ve.Fields)
	}
}

package services

import (
	"strings"
	"testing"
)

func TestMissingFieldError_Message(t *testing.T) {
	err := &MissingFieldError{Field: "destination"}
	if err.Error() != "'destination' must exist" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestAlreadyResolvedError_Message(t *testing.T) {
	err := &AlreadyResolvedError{Status: "approved"}
	if err.Error() != "interaction already approved" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestErrInvalidType_ListsAllTypes(t *testing.T) {
	msg := ErrInvalidType.Error()
	for _, want := range []string{"permission", "confirm", "input", "choice"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing type %q", msg, want)
		}
	}
}

package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorDetail(t *testing.T) {
	err := UnresolvedVariable("client_name", "clause-1")
	msg := err.Error()

	if !strings.Contains(msg, "client_name") {
		t.Errorf("Expected token in message, got %s", msg)
	}
	if !strings.Contains(msg, "clause-1") {
		t.Errorf("Expected clause id in message, got %s", msg)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"validation", Validation("empty content"), KindValidation},
		{"invalid state", InvalidState("c1", "not pending"), KindInvalidState},
		{"template validation", TemplateValidation([]string{"amount"}), KindTemplateValidation},
		{"missing party field", MissingPartyField("client_name"), KindMissingPartyField},
		{"external", External("extract failed", errors.New("timeout")), KindExternalCollaborator},
		{"untyped", errors.New("plain"), Kind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("Expected kind %q, got %q", tt.kind, got)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("ingest item 3: %w", Validation("confidence out of range"))
	if !IsKind(err, KindValidation) {
		t.Error("Expected wrapped error to keep its kind")
	}
}

func TestExternalUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := External("risk call failed", cause)
	if !errors.Is(err, cause) {
		t.Error("Expected Unwrap to expose the cause")
	}
}

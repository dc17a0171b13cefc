package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("name", "required"), http.StatusBadRequest},
		{Unauthorized("invalid credentials"), http.StatusUnauthorized},
		{Forbidden("cannot delete own account"), http.StatusForbidden},
		{NotFoundf("station %s not found", "S01"), http.StatusNotFound},
		{Conflictf("port %s is occupied", "P01"), http.StatusConflict},
		{Internal("query failed", errors.New("pq: timeout")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPublicMessageHidesInternalCause(t *testing.T) {
	err := Internal("failed to load station", errors.New("pq: connection refused"))
	if msg := PublicMessage(err); msg != "internal server error" {
		t.Errorf("message = %q, leaked internal detail", msg)
	}

	wrapped := fmt.Errorf("handler: %w", Conflictf("station S01 has ports"))
	if msg := PublicMessage(wrapped); msg != "station S01 has ports" {
		t.Errorf("message = %q, want conflict text through the chain", msg)
	}
}

func TestKindOfUnwrapsChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", Validation("email", "required"))
	if KindOf(err) != KindValidation {
		t.Errorf("kind = %v, want validation", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("plain error should be unknown kind")
	}
}

func TestValidationErrorIncludesField(t *testing.T) {
	err := Validation("power_kw", "must be positive")
	if err.Error() != "power_kw: must be positive" {
		t.Errorf("Error() = %q", err.Error())
	}
}

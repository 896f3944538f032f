package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestSentinelMatching(t *testing.T) {
	err := fmt.Errorf("cast vote: %w", ErrNotAssigned)
	if !errors.Is(err, ErrNotAssigned) {
		t.Fatalf("expected wrapped error to match ErrNotAssigned")
	}
	if errors.Is(err, ErrVoteExists) {
		t.Fatalf("did not expect ErrNotAssigned to match ErrVoteExists")
	}
	if KindOf(err) != KindForbidden {
		t.Errorf("KindOf() = %s, want %s", KindOf(err), KindForbidden)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", Validation("bad", nil), http.StatusBadRequest},
		{"not found", NotFound("missing", nil), http.StatusNotFound},
		{"forbidden", ErrNotAssigned, http.StatusForbidden},
		{"conflict", ErrVoteExists, http.StatusConflict},
		{"invalid transition", ErrInvalidTransition, http.StatusConflict},
		{"internal", Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromGorm(t *testing.T) {
	if KindOf(FromGorm(gorm.ErrRecordNotFound, "movie")) != KindNotFound {
		t.Errorf("record not found should map to not found")
	}
	if KindOf(FromGorm(gorm.ErrDuplicatedKey, "vote")) != KindConflict {
		t.Errorf("duplicated key should map to conflict")
	}
	if KindOf(FromGorm(errors.New("connection refused"), "vote")) != KindInternal {
		t.Errorf("unknown errors should map to internal")
	}
	if FromGorm(nil, "movie") != nil {
		t.Errorf("nil should stay nil")
	}
	if !errors.Is(FromGorm(ErrEventFull, "reservation"), ErrEventFull) {
		t.Errorf("app errors should pass through unchanged")
	}
}

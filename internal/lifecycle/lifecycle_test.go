package lifecycle

import (
	"errors"
	"testing"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/constant"
)

func TestAdminCanReachEveryStatus(t *testing.T) {
	for _, from := range constant.SelectionStatuses {
		for _, to := range constant.SelectionStatuses {
			if !CanTransition(from, to, constant.RoleAdmin) {
				t.Errorf("admin should move %s -> %s", from, to)
			}
		}
	}
}

func TestJuryPromotion(t *testing.T) {
	tests := []struct {
		from    constant.SelectionStatus
		wantErr error
	}{
		{constant.StatusToDiscuss, nil},
		{constant.StatusSubmitted, apperror.ErrInvalidTransition},
		{constant.StatusAssigned, apperror.ErrInvalidTransition},
		{constant.StatusCandidate, apperror.ErrInvalidTransition},
		{constant.StatusRefused, apperror.ErrInvalidTransition},
		{constant.StatusAwarded, apperror.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			err := Check(tt.from, constant.StatusCandidate, constant.RoleJury)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Check() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Check() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestJuryCannotSetOtherStatuses(t *testing.T) {
	err := Check(constant.StatusToDiscuss, constant.StatusSelected, constant.RoleJury)
	if apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("Check() kind = %s, want forbidden", apperror.KindOf(err))
	}
}

func TestProducerHasNoTransitions(t *testing.T) {
	if targets := AllowedTargets(constant.StatusSubmitted, constant.RoleProducer); len(targets) != 0 {
		t.Fatalf("producer targets = %v, want none", targets)
	}
	if apperror.KindOf(Check(constant.StatusSubmitted, constant.StatusSelected, constant.RoleProducer)) != apperror.KindForbidden {
		t.Fatalf("producer transition should be forbidden")
	}
}

func TestUnknownStatus(t *testing.T) {
	err := Check(constant.StatusSubmitted, constant.SelectionStatus("published"), constant.RoleAdmin)
	if !errors.Is(err, apperror.ErrInvalidStatus) {
		t.Fatalf("Check() error = %v, want ErrInvalidStatus", err)
	}
}

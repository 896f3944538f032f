package util

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/SeakMengs/MarsAI/internal/apperror"
)

func TestParseNote(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    float64
		wantErr bool
	}{
		{"float", 7.5, 7.5, false},
		{"int", 8, 8, false},
		{"json number", json.Number("6.25"), 6.25, false},
		{"numeric string", " 9 ", 9, false},
		{"empty string", "", 0, true},
		{"word", "great", 0, true},
		{"nan string", "NaN", 0, true},
		{"inf string", "+Inf", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNote(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, apperror.ErrInvalidNote) {
					t.Fatalf("ParseNote() error = %v, want ErrInvalidNote", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNote() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseNote() = %v, want %v", got, tt.want)
			}
		})
	}
}

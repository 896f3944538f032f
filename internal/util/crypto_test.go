package util

import (
	"strings"
	"testing"
)

func TestGenerateNChar(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"Generate 5 characters", 5, false},
		{"Generate 10 characters", 10, false},
		{"Generate negative characters", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateNChar(tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateNChar() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(got) != tt.n {
				t.Errorf("GenerateNChar() got = %v, want length %v", got, tt.n)
			}
		})
	}
}

func TestGenerateReservationCode(t *testing.T) {
	code, err := GenerateReservationCode()
	if err != nil {
		t.Fatalf("GenerateReservationCode() error = %v", err)
	}
	if len(code) != 10 {
		t.Errorf("GenerateReservationCode() length = %d, want 10", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(reservationCodeAlphabet, r) {
			t.Errorf("GenerateReservationCode() has unexpected rune %q", r)
		}
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Errorf("CheckPassword() should accept the right password")
	}
	if CheckPassword(hash, "wrong") {
		t.Errorf("CheckPassword() should reject a wrong password")
	}
	if CheckPassword("", "s3cret-pass") {
		t.Errorf("CheckPassword() should reject accounts without password")
	}
}

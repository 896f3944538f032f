package util

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain comment ", "plain comment"},
		{"<script>alert(1)</script>nice film", "nice film"},
		{"<b>bold</b> & brave", "bold & brave"},
		{"a < b", "a < b"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;ok", "ok"},
		{"&lt;b&gt;loud&lt;/b&gt;", "loud"},
		{"", ""},
	}

	for _, tt := range tests {
		got := SanitizeText(tt.in)
		if got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := SanitizeText(got); again != got {
			t.Errorf("SanitizeText is not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}

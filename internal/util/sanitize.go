package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds how many layers of entity encoding are peeled off.
const maxSanitizePasses = 4

// SanitizeText strips every html tag from user supplied free text and trims it.
// bluemonday escapes what is left, so entities are decoded back for storage. Decoding
// can reveal markup that was sent encoded, so the text is cleaned until it stops
// changing. Applying it twice gives the same result as applying it once.
func SanitizeText(s string) string {
	out := strings.TrimSpace(s)
	for i := 0; i < maxSanitizePasses; i++ {
		next := strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(out)))
		if next == out {
			return out
		}
		out = next
	}

	// Still unstable after the last pass, keep the escaped form.
	return strings.TrimSpace(strictPolicy.Sanitize(out))
}

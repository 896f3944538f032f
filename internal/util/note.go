package util

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
)

// ParseNote accepts a JSON number or a numeric string. NaN, Inf and anything
// else is rejected with apperror.ErrInvalidNote.
func ParseNote(raw any) (float64, error) {
	var (
		note float64
		err  error
	)

	switch v := raw.(type) {
	case float64:
		note = v
	case float32:
		note = float64(v)
	case int:
		note = float64(v)
	case int64:
		note = float64(v)
	case json.Number:
		note, err = v.Float64()
	case string:
		note, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, apperror.ErrInvalidNote
	}

	if err != nil || math.IsNaN(note) || math.IsInf(note, 0) {
		return 0, apperror.ErrInvalidNote
	}

	return note, nil
}

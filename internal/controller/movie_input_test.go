package controller

import (
	"encoding/json"
	"testing"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []uint
		wantErr error
	}{
		{"array", `[1, 2, 3]`, []uint{1, 2, 3}, nil},
		{"numeric strings", `["4", " 5 "]`, []uint{4, 5}, nil},
		{"json encoded string", `"[6,7]"`, []uint{6, 7}, nil},
		{"empty array clears", `[]`, []uint{}, nil},
		{"absent", ``, nil, apperror.ErrMissingField},
		{"null", `null`, nil, apperror.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIdList(json.RawMessage(tt.raw), "categories")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, raw := range []string{`[1, "x"]`, `[1.5]`, `[-1]`, `[0]`, `{"a":1}`, `"not json"`, `42`} {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := parseIdList(json.RawMessage(raw), "categories")
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

			var ae *apperror.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "categories", ae.Field)
		})
	}
}

func TestParseCollaborators(t *testing.T) {
	got, err := parseCollaborators(json.RawMessage(`[{"email":" ada@example.com ","first_name":"<b>Ada</b>"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ada@example.com", got[0].Email)
	assert.Equal(t, "Ada", got[0].FirstName)

	got, err = parseCollaborators(json.RawMessage(`"[]"`))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parseCollaborators(json.RawMessage(`[1,2]`))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = parseCollaborators(nil)
	assert.ErrorIs(t, err, apperror.ErrMissingField)
}

func TestResolveDuration(t *testing.T) {
	secs := 90
	got, err := resolveDuration(&secs, nil)
	require.NoError(t, err)
	assert.Equal(t, 90, *got)

	minutes := 1.5
	got, err = resolveDuration(nil, &minutes)
	require.NoError(t, err)
	assert.Equal(t, 90, *got)

	minutes = 2.01
	_, err = resolveDuration(nil, &minutes)
	assert.ErrorIs(t, err, apperror.ErrDurationTooLong)

	got, err = resolveDuration(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	neg := -1
	_, err = resolveDuration(&neg, nil)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

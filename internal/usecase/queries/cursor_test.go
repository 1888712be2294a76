//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursorRoundTrip(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 3, 2, 9, 15, 30, 123456000, time.UTC)

	cursor := queries.EncodeAfterCursor(at, id)
	gotTime, gotID, err := queries.DecodeAfterCursor(cursor)
	require.NoError(t, err)

	assert.Equal(t, id, gotID)
	assert.True(t, gotTime.Equal(at))
}

func TestDecodeAfterCursorErrors(t *testing.T) {
	cases := []struct {
		name   string
		cursor string
	}{
		{"empty", ""},
		{"not base64", "!!not-base64!!"},
		{"unknown version", base64.URLEncoding.EncodeToString([]byte("v9:123-" + uuid.New().String()))},
		{"missing separator", base64.URLEncoding.EncodeToString([]byte("v1:123456"))},
		{"bad timestamp", base64.URLEncoding.EncodeToString([]byte("v1:abc-" + uuid.New().String()))},
		{"bad uuid", base64.URLEncoding.EncodeToString([]byte("v1:123-not-a-uuid"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(tc.cursor)
			assert.Error(t, err)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, queries.ValidateLimit(0))
	assert.Equal(t, 20, queries.ValidateLimit(-5))
	assert.Equal(t, 50, queries.ValidateLimit(50))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit+1))
}

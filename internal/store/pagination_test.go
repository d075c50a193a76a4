package store

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		id    string
	}{
		{"title ordering", OrderByTitle, "The Dispossessed", "book-001"},
		{"search ordering", OrderBySearch, "the dispossessed", "book-002"},
		{"value with separator byte", OrderByTitle, "a\x00b", "book-003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeCursor(tt.field, tt.value, tt.id)
			require.NotEmpty(t, encoded)

			decoded := DecodeCursor(encoded)
			require.NotNil(t, decoded)
			assert.Equal(t, tt.field, decoded.Field)
			assert.Equal(t, tt.value, decoded.Value)
			assert.Equal(t, tt.id, decoded.ID)
		})
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"not json", base64.URLEncoding.EncodeToString([]byte("plain text"))},
		{"unsupported field", EncodeCursor("created_at", "123", "book-001")},
		{"empty value", EncodeCursor(OrderByTitle, "", "book-001")},
		{"empty id", EncodeCursor(OrderByTitle, "The Dispossessed", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, DecodeCursor(tt.cursor))
		})
	}
}

func TestFindParams_Validate(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		want     int
	}{
		{"zero defaults", 0, 20},
		{"negative defaults", -5, 20},
		{"in range kept", 50, 50},
		{"over cap clamped", 250, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := FindParams{PageSize: tt.pageSize}
			params.Validate()
			assert.Equal(t, tt.want, params.PageSize)
		})
	}
}

package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		bookID := NewBook()

		parsed, err := uuid.Parse(bookID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())

		assert.False(t, seen[bookID])
		seen[bookID] = true
	}
}

func TestNewRequest(t *testing.T) {
	reqID, err := NewRequest()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reqID, "req-"))
	assert.Greater(t, len(reqID), len("req-"))

	other, err := NewRequest()
	require.NoError(t, err)
	assert.NotEqual(t, reqID, other)
}

func TestMustRequest(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustRequest())
	})
}

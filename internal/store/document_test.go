package store

import (
	"encoding/json/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochMillis_TolerantUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"integer", `1700000000000`, 1700000000000},
		{"float", `1700000000000.0`, 1700000000000},
		{"seconds and nanos object", `{"seconds": 1700000000, "nanos": 500000000}`, 1700000000500},
		{"unconvertible string", `"yesterday"`, 0},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m epochMillis
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &m))
			assert.Equal(t, tt.want, int64(m))
		})
	}
}

func TestBookDocument_ToBookDefaults(t *testing.T) {
	doc := &bookDocument{Title: "Sparse"}

	book := doc.toBook("book-001", "owner-1")

	assert.Equal(t, "book-001", book.ID)
	assert.Equal(t, "owner-1", book.CreatedBy)
	assert.NotNil(t, book.Authors)
	assert.NotNil(t, book.Genres)
	assert.NotNil(t, book.Links)
	assert.NotZero(t, book.CreatedAt)
	assert.NotZero(t, book.LastModifiedAt)
}

func TestSearchKeyForTitle(t *testing.T) {
	assert.Equal(t, "cafe stories", searchKeyForTitle("Café Stories"))
	assert.Equal(t, " ", searchKeyForTitle("   "))
	assert.Equal(t, " ", searchKeyForTitle(""))
}

func TestSplitIndexEntry(t *testing.T) {
	prefix := titleIndexPrefix("owner-1")
	key := indexEntryKey(prefix, "some title", "book-001")

	value, id, ok := splitIndexEntry(key, prefix)
	require.True(t, ok)
	assert.Equal(t, "some title", value)
	assert.Equal(t, "book-001", id)
}

package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchDeleter_AutoFlushAtCapacity(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	books := NewBooks(staticProvider(s), nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		book := testBook(fmt.Sprintf("Book %d", i))
		book.ID = fmt.Sprintf("book-%d", i)
		require.NoError(t, books.Create(ctx, "owner-1", book))
	}

	deleter := s.NewBatchDeleter(2)
	defer deleter.Cancel()

	for i := 0; i < 5; i++ {
		title := fmt.Sprintf("Book %d", i)
		err := deleter.DeleteBook("owner-1", fmt.Sprintf("book-%d", i), title, searchKeyForTitle(title))
		require.NoError(t, err)
	}

	// Five documents through a two-document batch: two auto-flushes with
	// one document still queued.
	assert.Equal(t, 2, deleter.Flushes())
	assert.Equal(t, 1, deleter.Count())

	require.NoError(t, deleter.Flush())
	assert.Equal(t, 3, deleter.Flushes())
	assert.Equal(t, 0, deleter.Count())

	result, err := books.Find(ctx, "owner-1", FindParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestBatchDeleter_EmptyFlushIsNoOp(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	deleter := s.NewBatchDeleter(maxDeleteBatchSize)
	defer deleter.Cancel()

	require.NoError(t, deleter.Flush())
	assert.Equal(t, 0, deleter.Flushes())
}

func TestBatchDeleter_OneOverCapacity(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	books := NewBooks(staticProvider(s), nil)
	ctx := context.Background()

	// One more document than the ceiling commits in exactly two batches.
	const total = maxDeleteBatchSize + 1
	for i := 0; i < total; i++ {
		book := testBook(fmt.Sprintf("Book %04d", i))
		book.ID = fmt.Sprintf("book-%04d", i)
		require.NoError(t, books.Create(ctx, "owner-1", book))
	}

	deleter := s.NewBatchDeleter(maxDeleteBatchSize)
	defer deleter.Cancel()

	for i := 0; i < total; i++ {
		title := fmt.Sprintf("Book %04d", i)
		err := deleter.DeleteBook("owner-1", fmt.Sprintf("book-%04d", i), title, searchKeyForTitle(title))
		require.NoError(t, err)
	}

	// The ceiling triggers one auto-flush, leaving the extra document queued.
	assert.Equal(t, 1, deleter.Flushes())
	assert.Equal(t, 1, deleter.Count())

	require.NoError(t, deleter.Flush())
	assert.Equal(t, 2, deleter.Flushes())

	result, err := books.Find(ctx, "owner-1", FindParams{PageSize: 100})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestBatchDeleter_Cancel(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	books := NewBooks(staticProvider(s), nil)
	ctx := context.Background()

	book := testBook("Survivor")
	book.ID = "book-001"
	require.NoError(t, books.Create(ctx, "owner-1", book))

	deleter := s.NewBatchDeleter(maxDeleteBatchSize)
	require.NoError(t, deleter.DeleteBook("owner-1", "book-001", book.Title, searchKeyForTitle(book.Title)))
	deleter.Cancel()

	got, err := books.Get(ctx, "owner-1", "book-001")
	require.NoError(t, err)
	require.NotNil(t, got)
}

package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// maxDeleteBatchSize is the per-commit write ceiling for bulk deletion.
// Each batch is committed before the next one starts.
const maxDeleteBatchSize = 500

// BatchDeleter removes book documents in fixed-size committed batches
// using Badger's WriteBatch. The count is per document, not per key: one
// book contributes its document plus both index entries to the same batch.
type BatchDeleter struct {
	store   *Store
	batch   *badger.WriteBatch
	maxSize int
	count   int
	flushes int
}

// NewBatchDeleter creates a batch deleter that auto-flushes once maxSize
// documents have been queued.
func (s *Store) NewBatchDeleter(maxSize int) *BatchDeleter {
	return &BatchDeleter{
		store:   s,
		batch:   s.db.NewWriteBatch(),
		maxSize: maxSize,
	}
}

// DeleteBook queues the deletion of one book document and its index
// entries, flushing the batch when it reaches maxSize.
func (d *BatchDeleter) DeleteBook(ownerID, bookID, title, searchText string) error {
	if err := d.batch.Delete(bookKey(ownerID, bookID)); err != nil {
		return fmt.Errorf("batch delete book: %w", err)
	}
	if err := d.batch.Delete(indexEntryKey(titleIndexPrefix(ownerID), title, bookID)); err != nil {
		return fmt.Errorf("batch delete title index: %w", err)
	}
	if searchText != "" {
		if err := d.batch.Delete(indexEntryKey(searchIndexPrefix(ownerID), searchText, bookID)); err != nil {
			return fmt.Errorf("batch delete search index: %w", err)
		}
	}

	d.count++
	if d.count >= d.maxSize {
		return d.Flush()
	}
	return nil
}

// Flush commits the pending batch. A batch with nothing queued is never
// committed.
func (d *BatchDeleter) Flush() error {
	if d.count == 0 {
		return nil
	}

	if err := d.batch.Flush(); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}
	d.flushes++

	if d.store.logger != nil {
		d.store.logger.Info("delete batch committed", "count", d.count, "batch", d.flushes)
	}

	d.count = 0
	d.batch = d.store.db.NewWriteBatch()
	return nil
}

// Cancel discards any pending, uncommitted deletes.
func (d *BatchDeleter) Cancel() {
	d.batch.Cancel()
	d.count = 0
}

// Count returns the number of documents queued in the current batch.
func (d *BatchDeleter) Count() int { return d.count }

// Flushes returns how many batches have been committed.
func (d *BatchDeleter) Flushes() int { return d.flushes }

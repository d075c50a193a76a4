package store

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/folioapp/folio-server/internal/domain"
	"github.com/folioapp/folio-server/internal/normalize"
)

// searchRangeCeiling closes the half-open range [term, term+ceiling] used
// for prefix matching on the search index: U+F8FF is a high private-use
// code point, so every key starting with term sorts inside the range.
const searchRangeCeiling = "\uf8ff"

// ErrNotFound is returned by write paths that require an existing book.
var ErrNotFound = errors.New("book not found")

// Books is the owner-scoped book repository. Every operation takes the
// owner id that scopes the key space; the repository holds no state of its
// own and is safe for concurrent use.
type Books struct {
	provider Provider
	logger   *slog.Logger
}

// NewBooks creates a book repository over the given store provider.
func NewBooks(provider Provider, logger *slog.Logger) *Books {
	return &Books{provider: provider, logger: logger}
}

// Find returns one page of the owner's books.
//
// With a search term the page is ordered by the denormalized search key
// and filtered to keys in [term, term+U+F8FF]; otherwise it is ordered by
// title. Both orders append the document id as a tie-break, so the order
// is total and cursors are unambiguous even for duplicate titles.
//
// A cursor minted under the other ordering field, or under a different
// search term, is silently discarded: switching between browsing and
// searching restarts from the top instead of producing wrong rows. An unavailable store yields an empty page, not
// an error; an offline database is a normal read-path condition.
func (b *Books) Find(ctx context.Context, ownerID string, params FindParams) (*PaginatedResult[*domain.Book], error) {
	params.Validate()

	emptyPage := &PaginatedResult[*domain.Book]{Items: []*domain.Book{}}

	s := b.provider()
	if s == nil {
		return emptyPage, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	term := normalize.SearchText(params.SearchTerm)
	field := OrderByTitle
	idxPrefix := titleIndexPrefix(ownerID)
	if term != "" {
		field = OrderBySearch
		idxPrefix = searchIndexPrefix(ownerID)
	}
	upperBound := term + searchRangeCeiling

	cursor := DecodeCursor(params.PageCursor)
	if cursor != nil && cursor.Field != field {
		cursor = nil
	}
	// Every search key in [term, term+ceiling] starts with the term, so a
	// search cursor whose value does not is from a different term; resuming
	// at it would return rows below the range's lower bound.
	if cursor != nil && term != "" && !strings.HasPrefix(cursor.Value, term) {
		cursor = nil
	}

	var (
		items     []*domain.Book
		lastValue string
		lastID    string
		hasMore   bool
	)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = idxPrefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		seek := idxPrefix
		if term != "" {
			seek = append(bytes.Clone(idxPrefix), term...)
		}
		if cursor != nil {
			seek = indexEntryKey(idxPrefix, cursor.Value, cursor.ID)
		}

		it.Seek(seek)
		if cursor != nil && it.ValidForPrefix(idxPrefix) && bytes.Equal(it.Item().Key(), seek) {
			// Resume strictly after the cursor row; it was already returned.
			it.Next()
		}

		for ; it.ValidForPrefix(idxPrefix); it.Next() {
			value, id, ok := splitIndexEntry(it.Item().Key(), idxPrefix)
			if !ok {
				continue
			}
			if term != "" && value > upperBound {
				break
			}

			// The page is over-fetched by one row: finding a row past the
			// page size proves more pages exist without returning it.
			if len(items) == params.PageSize {
				hasMore = true
				break
			}

			book, err := readBook(txn, ownerID, id)
			if err != nil {
				return err
			}
			items = append(items, book)
			lastValue = value
			lastID = id
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}

	if len(items) == 0 {
		return emptyPage, nil
	}

	result := &PaginatedResult[*domain.Book]{Items: items, HasMore: hasMore}
	if hasMore {
		result.NextCursor = EncodeCursor(field, lastValue, lastID)
	}
	return result, nil
}

// Get retrieves one book. A nil book with a nil error means not found;
// an unavailable store and a missing document are the same low-information
// answer on this path.
func (b *Books) Get(ctx context.Context, ownerID, bookID string) (*domain.Book, error) {
	s := b.provider()
	if s == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc bookDocument
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(ownerID, bookID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return doc.toBook(bookID, ownerID), nil
}

// Create writes a new book document together with its title and search
// index entries. Timestamps are stamped here, not taken from the caller,
// and the search key gets the non-blank fallback. No-op when the store is
// unavailable.
func (b *Books) Create(ctx context.Context, ownerID string, book *domain.Book) error {
	s := b.provider()
	if s == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	book.CreatedBy = ownerID
	book.CreatedAt = now
	book.LastModifiedAt = now

	searchText := searchKeyForTitle(book.Title)
	doc := bookDocument{
		Title:          book.Title,
		Description:    book.Description,
		Authors:        book.Authors,
		Genres:         book.Genres,
		Links:          book.Links,
		CreatedBy:      ownerID,
		CreatedAt:      epochMillis(now),
		LastModifiedAt: epochMillis(now),
		SearchText:     searchText,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(bookKey(ownerID, book.ID), data); err != nil {
			return err
		}
		if err := txn.Set(indexEntryKey(titleIndexPrefix(ownerID), book.Title, book.ID), []byte(book.ID)); err != nil {
			return err
		}
		return txn.Set(indexEntryKey(searchIndexPrefix(ownerID), searchText, book.ID), []byte(book.ID))
	})
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	if b.logger != nil {
		b.logger.Info("book created", "owner_id", ownerID, "book_id", book.ID, "title", book.Title)
	}
	return nil
}

// Update applies a partial update. Only non-nil patch fields are written;
// a patch with no fields issues no write at all, not even a timestamp
// refresh. A title change recomputes the search key and rewrites both
// index entries in the same transaction. Returns ErrNotFound when the
// document does not exist; no-op when the store is unavailable.
func (b *Books) Update(ctx context.Context, ownerID, bookID string, patch domain.BookPatch) error {
	s := b.provider()
	if s == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(ownerID, bookID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var doc bookDocument
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return err
		}

		oldTitle := doc.Title
		oldSearch := doc.SearchText

		if patch.Title != nil {
			doc.Title = *patch.Title
			doc.SearchText = searchKeyForTitle(doc.Title)
		}
		if patch.Description != nil {
			doc.Description = *patch.Description
		}
		if patch.Authors != nil {
			doc.Authors = *patch.Authors
		}
		if patch.Genres != nil {
			doc.Genres = *patch.Genres
		}
		if patch.Links != nil {
			doc.Links = *patch.Links
		}
		doc.LastModifiedAt = epochMillis(time.Now().UnixMilli())

		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}
		if err := txn.Set(bookKey(ownerID, bookID), data); err != nil {
			return err
		}

		if patch.Title != nil && doc.Title != oldTitle {
			if err := txn.Delete(indexEntryKey(titleIndexPrefix(ownerID), oldTitle, bookID)); err != nil {
				return err
			}
			if err := txn.Set(indexEntryKey(titleIndexPrefix(ownerID), doc.Title, bookID), []byte(bookID)); err != nil {
				return err
			}
		}
		if patch.Title != nil && doc.SearchText != oldSearch {
			if oldSearch != "" {
				if err := txn.Delete(indexEntryKey(searchIndexPrefix(ownerID), oldSearch, bookID)); err != nil {
					return err
				}
			}
			if err := txn.Set(indexEntryKey(searchIndexPrefix(ownerID), doc.SearchText, bookID), []byte(bookID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("update book: %w", err)
	}

	if b.logger != nil {
		b.logger.Info("book updated", "owner_id", ownerID, "book_id", bookID)
	}
	return nil
}

// Delete removes one book and its index entries. Deleting a missing book
// is not an error, and an unavailable store is a no-op.
func (b *Books) Delete(ctx context.Context, ownerID, bookID string) error {
	s := b.provider()
	if s == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(ownerID, bookID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var doc bookDocument
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return err
		}

		if err := txn.Delete(bookKey(ownerID, bookID)); err != nil {
			return err
		}
		if err := txn.Delete(indexEntryKey(titleIndexPrefix(ownerID), doc.Title, bookID)); err != nil {
			return err
		}
		if doc.SearchText != "" {
			return txn.Delete(indexEntryKey(searchIndexPrefix(ownerID), doc.SearchText, bookID))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if b.logger != nil {
		b.logger.Info("book deleted", "owner_id", ownerID, "book_id", bookID)
	}
	return nil
}

// DeleteAll removes every book the owner has: first read all document
// references, then delete them in fixed-size committed batches. Batches
// are flushed sequentially, never in parallel, so a crash mid-way leaves
// "first N batches gone, remainder intact" and re-invoking is safe. An
// unavailable store or an already-empty collection is a no-op; no empty
// batch is ever committed.
func (b *Books) DeleteAll(ctx context.Context, ownerID string) error {
	s := b.provider()
	if s == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	type bookRef struct {
		id         string
		title      string
		searchText string
	}

	var refs []bookRef
	prefix := bookKeyPrefix(ownerID)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])

			var doc bookDocument
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return err
			}
			refs = append(refs, bookRef{id: id, title: doc.Title, searchText: doc.SearchText})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect books for deletion: %w", err)
	}

	if len(refs) == 0 {
		return nil
	}

	batch := s.NewBatchDeleter(maxDeleteBatchSize)
	defer batch.Cancel()

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := batch.DeleteBook(ownerID, ref.id, ref.title, ref.searchText); err != nil {
			return fmt.Errorf("batch delete book: %w", err)
		}
	}
	if err := batch.Flush(); err != nil {
		return fmt.Errorf("flush delete batch: %w", err)
	}

	if b.logger != nil {
		b.logger.Info("books deleted",
			"owner_id", ownerID,
			"count", len(refs),
			"batches", batch.Flushes(),
		)
	}
	return nil
}

// readBook loads and maps one book document inside an open transaction.
func readBook(txn *badger.Txn, ownerID, bookID string) (*domain.Book, error) {
	item, err := txn.Get(bookKey(ownerID, bookID))
	if err != nil {
		return nil, fmt.Errorf("read book %s: %w", bookID, err)
	}
	var doc bookDocument
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	}); err != nil {
		return nil, err
	}
	return doc.toBook(bookID, ownerID), nil
}

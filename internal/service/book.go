// Package service contains the application services sitting between the
// HTTP layer and the stores. Services own input validation, caller
// identity checks, and the narrowing of store failures into the error
// taxonomy.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/folioapp/folio-server/internal/domain"
	"github.com/folioapp/folio-server/internal/errors"
	"github.com/folioapp/folio-server/internal/id"
	"github.com/folioapp/folio-server/internal/store"
	"github.com/folioapp/folio-server/internal/validation"
)

// CreateBookInput is the payload for creating a book.
type CreateBookInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"required,min=1,max=1000"`
	Authors     []string `json:"authors" validate:"required,min=1,dive,required"`
	Genres      []string `json:"genres" validate:"omitempty,dive,required"`
	Links       []string `json:"links" validate:"omitempty,dive,url"`
}

// UpdateBookInput is the payload for a partial book update. Absent fields
// are left untouched; present fields overwrite, including with empty values
// where validation allows them.
type UpdateBookInput struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=1,max=1000"`
	Authors     *[]string `json:"authors,omitempty" validate:"omitempty,min=1,dive,required"`
	Genres      *[]string `json:"genres,omitempty" validate:"omitempty,dive,required"`
	Links       *[]string `json:"links,omitempty" validate:"omitempty,dive,url"`
}

func (in *UpdateBookInput) toPatch() domain.BookPatch {
	return domain.BookPatch{
		Title:       in.Title,
		Description: in.Description,
		Authors:     in.Authors,
		Genres:      in.Genres,
		Links:       in.Links,
	}
}

// BookService exposes the book operations for a single authenticated owner.
type BookService struct {
	books     *store.Books
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a book service.
func NewBookService(books *store.Books, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{books: books, validator: validator, logger: logger}
}

// Find returns one page of the owner's books. A missing owner identity
// yields an empty page rather than an error, matching an anonymous caller
// seeing an empty shelf.
func (s *BookService) Find(ctx context.Context, ownerID string, params store.FindParams) (*store.PaginatedResult[*domain.Book], error) {
	if ownerID == "" {
		return &store.PaginatedResult[*domain.Book]{Items: []*domain.Book{}}, nil
	}

	result, err := s.books.Find(ctx, ownerID, params)
	if err != nil {
		return nil, s.classify(err, "failed to fetch books")
	}
	return result, nil
}

// Get returns a single book by id.
func (s *BookService) Get(ctx context.Context, ownerID, bookID string) (*domain.Book, error) {
	if ownerID == "" {
		return nil, errors.Generic("missing owner identity")
	}
	if bookID == "" {
		return nil, errors.Generic("missing book id")
	}

	book, err := s.books.Get(ctx, ownerID, bookID)
	if err != nil {
		return nil, s.classify(err, "failed to fetch book")
	}
	if book == nil {
		return nil, errors.NotFound("book not found")
	}
	return book, nil
}

// Create validates the input, mints the book id, and persists the record.
func (s *BookService) Create(ctx context.Context, ownerID string, input CreateBookInput) (*domain.Book, error) {
	if ownerID == "" {
		return nil, errors.Generic("missing owner identity")
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	book := &domain.Book{
		ID:          id.NewBook(),
		Title:       input.Title,
		Description: input.Description,
		Authors:     input.Authors,
		Genres:      input.Genres,
		Links:       input.Links,
		CreatedBy:   ownerID,
	}
	if book.Genres == nil {
		book.Genres = []string{}
	}
	if book.Links == nil {
		book.Links = []string{}
	}

	if err := s.books.Create(ctx, ownerID, book); err != nil {
		return nil, s.classify(err, "failed to create book")
	}

	s.logger.Info("book created", "owner_id", ownerID, "book_id", book.ID)
	return book, nil
}

// Update applies a partial update to an existing book.
func (s *BookService) Update(ctx context.Context, ownerID, bookID string, input UpdateBookInput) error {
	if ownerID == "" {
		return errors.Generic("missing owner identity")
	}
	if bookID == "" {
		return errors.Generic("missing book id")
	}
	if err := s.validator.Validate(input); err != nil {
		return err
	}

	if err := s.books.Update(ctx, ownerID, bookID, input.toPatch()); err != nil {
		return s.classify(err, "failed to update book")
	}

	s.logger.Info("book updated", "owner_id", ownerID, "book_id", bookID)
	return nil
}

// Delete removes a book. Deleting a book that does not exist succeeds.
func (s *BookService) Delete(ctx context.Context, ownerID, bookID string) error {
	if ownerID == "" {
		return errors.Generic("missing owner identity")
	}
	if bookID == "" {
		return errors.Generic("missing book id")
	}

	if err := s.books.Delete(ctx, ownerID, bookID); err != nil {
		return s.classify(err, "failed to delete book")
	}

	s.logger.Info("book deleted", "owner_id", ownerID, "book_id", bookID)
	return nil
}

// DeleteAll removes every book the owner has.
func (s *BookService) DeleteAll(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return errors.Generic("missing owner identity")
	}

	if err := s.books.DeleteAll(ctx, ownerID); err != nil {
		return s.classify(err, "failed to delete books")
	}
	return nil
}

// unavailablePatterns mark store failures caused by connectivity or
// permission trouble rather than by the request itself.
var unavailablePatterns = []string{
	"permission",
	"network",
	"unavailable",
	"failed to fetch",
	"connection",
}

// classify narrows a store error into the taxonomy. Errors already in the
// taxonomy pass through unchanged.
func (s *BookService) classify(err error, msg string) error {
	var taxonomy *errors.Error
	if errors.As(err, &taxonomy) {
		return taxonomy
	}
	if errors.Is(err, store.ErrNotFound) {
		return errors.NotFound("book not found")
	}

	lower := strings.ToLower(err.Error())
	for _, pattern := range unavailablePatterns {
		if strings.Contains(lower, pattern) {
			s.logger.Warn("store unavailable", "error", err)
			return errors.Unavailable("service temporarily unavailable").WithCause(err)
		}
	}

	s.logger.Error("store operation failed", "error", err)
	return errors.Generic(msg).WithCause(err)
}

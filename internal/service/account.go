package service

import (
	"context"
	"log/slog"

	"github.com/folioapp/folio-server/internal/domain"
	"github.com/folioapp/folio-server/internal/errors"
	"github.com/folioapp/folio-server/internal/store"
)

// AccountService handles operations that span an owner's whole account.
type AccountService struct {
	books    *BookService
	profiles *store.Profiles
	logger   *slog.Logger
}

// NewAccountService creates an account service.
func NewAccountService(books *BookService, profiles *store.Profiles, logger *slog.Logger) *AccountService {
	return &AccountService{books: books, profiles: profiles, logger: logger}
}

// GetProfile returns the owner's profile, or nil if none has been saved.
func (s *AccountService) GetProfile(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if ownerID == "" {
		return nil, errors.Generic("missing owner identity")
	}
	profile, err := s.profiles.Get(ctx, ownerID)
	if err != nil {
		return nil, errors.Generic("failed to fetch profile").WithCause(err)
	}
	return profile, nil
}

// SaveProfile stores the owner's profile.
func (s *AccountService) SaveProfile(ctx context.Context, ownerID string, profile *domain.Profile) error {
	if ownerID == "" {
		return errors.Generic("missing owner identity")
	}
	if err := s.profiles.Put(ctx, ownerID, profile); err != nil {
		return errors.Generic("failed to save profile").WithCause(err)
	}
	return nil
}

// DeleteAccount removes all of the owner's data. Books go first so a
// failed bulk delete surfaces before the profile disappears; the caller
// can retry the whole cascade safely.
func (s *AccountService) DeleteAccount(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return errors.Generic("missing owner identity")
	}

	if err := s.books.DeleteAll(ctx, ownerID); err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, ownerID); err != nil {
		return errors.Generic("failed to delete profile").WithCause(err)
	}

	s.logger.Info("account deleted", "owner_id", ownerID)
	return nil
}

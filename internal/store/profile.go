package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/folioapp/folio-server/internal/domain"
)

// Profiles stores the single profile document each owner has. Like Books
// it degrades to empty results and no-ops when the store is unavailable.
type Profiles struct {
	provider Provider
	logger   *slog.Logger
}

// NewProfiles creates a profile repository over the given store provider.
func NewProfiles(provider Provider, logger *slog.Logger) *Profiles {
	return &Profiles{provider: provider, logger: logger}
}

// Get retrieves the owner's profile. Nil with a nil error means not found.
func (p *Profiles) Get(ctx context.Context, ownerID string) (*domain.Profile, error) {
	s := p.provider()
	if s == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var profile domain.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(ownerID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Put writes the owner's profile, stamping UpdatedAt.
func (p *Profiles) Put(ctx context.Context, ownerID string, profile *domain.Profile) error {
	s := p.provider()
	if s == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	profile.UpdatedAt = time.Now().UnixMilli()
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(ownerID), data)
	})
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}

	if p.logger != nil {
		p.logger.Info("profile saved", "owner_id", ownerID)
	}
	return nil
}

// Delete removes the owner's profile document. Idempotent.
func (p *Profiles) Delete(ctx context.Context, ownerID string) error {
	s := p.provider()
	if s == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(profileKey(ownerID))
	})
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if p.logger != nil {
		p.logger.Info("profile deleted", "owner_id", ownerID)
	}
	return nil
}

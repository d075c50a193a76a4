package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioapp/folio-server/internal/domain"
	"github.com/folioapp/folio-server/internal/errors"
	"github.com/folioapp/folio-server/internal/store"
	"github.com/folioapp/folio-server/internal/validation"
)

func setupAccountService(t *testing.T) (*AccountService, *BookService, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "folio-account-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	provider := func() *store.Store { return s }
	books := store.NewBooks(provider, nil)
	profiles := store.NewProfiles(provider, nil)

	bookSvc := NewBookService(books, validation.New(), testLogger())
	accountSvc := NewAccountService(bookSvc, profiles, testLogger())

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return accountSvc, bookSvc, cleanup
}

func TestAccountService_ProfileRoundTrip(t *testing.T) {
	svc, _, cleanup := setupAccountService(t)
	defer cleanup()

	ctx := context.Background()

	got, err := svc.GetProfile(ctx, "owner-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	profile := &domain.Profile{DisplayName: "Ursula", Bio: "Writer."}
	require.NoError(t, svc.SaveProfile(ctx, "owner-1", profile))

	got, err = svc.GetProfile(ctx, "owner-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ursula", got.DisplayName)
}

func TestAccountService_DeleteAccountCascades(t *testing.T) {
	svc, bookSvc, cleanup := setupAccountService(t)
	defer cleanup()

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := bookSvc.Create(ctx, "owner-1", validCreateInput(fmt.Sprintf("Book %d", i)))
		require.NoError(t, err)
	}
	require.NoError(t, svc.SaveProfile(ctx, "owner-1", &domain.Profile{DisplayName: "Ursula"}))

	// Another owner's data stays put.
	_, err := bookSvc.Create(ctx, "owner-2", validCreateInput("Keeper"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, "owner-1"))

	result, err := bookSvc.Find(ctx, "owner-1", store.FindParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Items)

	profile, err := svc.GetProfile(ctx, "owner-1")
	require.NoError(t, err)
	assert.Nil(t, profile)

	other, err := bookSvc.Find(ctx, "owner-2", store.FindParams{})
	require.NoError(t, err)
	assert.Len(t, other.Items, 1)
}

func TestAccountService_MissingIdentity(t *testing.T) {
	svc, _, cleanup := setupAccountService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := svc.GetProfile(ctx, "")
	assert.ErrorIs(t, err, errors.ErrGeneric)
	assert.ErrorIs(t, svc.SaveProfile(ctx, "", &domain.Profile{}), errors.ErrGeneric)
	assert.ErrorIs(t, svc.DeleteAccount(ctx, ""), errors.ErrGeneric)
}

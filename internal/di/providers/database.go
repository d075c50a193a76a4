package providers

import (
	"path/filepath"
	"sync"

	"github.com/samber/do/v2"

	"github.com/folioapp/folio-server/internal/config"
	"github.com/folioapp/folio-server/internal/logger"
	"github.com/folioapp/folio-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability. The wrapped store
// may be nil when the database failed to open; the repositories treat a
// nil store as a degraded backend and keep serving empty results.
type StoreHandle struct {
	mu    sync.RWMutex
	store *store.Store
}

// Provider returns the store accessor handed to the repositories.
func (h *StoreHandle) Provider() store.Provider {
	return func() *store.Store {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.store
	}
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	h.mu.Lock()
	s := h.store
	h.store = nil
	h.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Close()
}

// ProvideStore provides the database store. An open failure is downgraded
// to a warning so the server still starts and serves degraded responses.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		log.Warn("Database unavailable, serving degraded responses", "path", dbPath, "error", err)
		return &StoreHandle{}, nil
	}

	log.Info("Database initialized", "path", dbPath)
	return &StoreHandle{store: db}, nil
}

// ProvideBooks provides the book repository.
func ProvideBooks(i do.Injector) (*store.Books, error) {
	handle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return store.NewBooks(handle.Provider(), log.Logger), nil
}

// ProvideProfiles provides the profile repository.
func ProvideProfiles(i do.Injector) (*store.Profiles, error) {
	handle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return store.NewProfiles(handle.Provider(), log.Logger), nil
}

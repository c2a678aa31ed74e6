package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/shelfline/shelfline-server/internal/config"
	"github.com/shelfline/shelfline-server/internal/logger"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the service database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Store.DataPath, 0o755); err != nil {
		return nil, err
	}

	s, err := sqlite.Open(cfg.Store.DBPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database opened", "path", cfg.Store.DBPath)

	return &StoreHandle{Store: s}, nil
}

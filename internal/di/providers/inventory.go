package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfline/shelfline-server/internal/config"
	"github.com/shelfline/shelfline-server/internal/inventory"
	"github.com/shelfline/shelfline-server/internal/logger"
)

// ProvideInventoryClient provides the book/inventory service client.
func ProvideInventoryClient(i do.Injector) (*inventory.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := inventory.New(cfg.Inventory.BaseURL, cfg.Inventory.Timeout, log.Logger)

	log.Info("Inventory client configured",
		"base_url", cfg.Inventory.BaseURL,
		"timeout", cfg.Inventory.Timeout,
	)

	return client, nil
}

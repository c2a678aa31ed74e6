package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/shelfline/shelfline-server/internal/config"
	"github.com/shelfline/shelfline-server/internal/logger"
)

// ConfigProvider returns a provider loading configuration for the given
// service. Each binary registers its own.
func ConfigProvider(svc config.Service) func(do.Injector) (*config.Config, error) {
	return func(i do.Injector) (*config.Config, error) {
		return config.LoadConfig(svc)
	}
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Writer:      os.Stdout,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting "+cfg.Server.Name,
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Store.DataPath,
	)

	return log, nil
}

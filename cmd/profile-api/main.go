// Package main provides the entry point for the Shelfline profile service.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/shelfline/shelfline-server/internal/di"
	"github.com/shelfline/shelfline-server/internal/di/providers"
	"github.com/shelfline/shelfline-server/internal/logger"
)

func main() {
	injector := di.NewProfileContainer()

	if err := di.BootstrapProfile(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap profile service: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down profile service gracefully...")

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}

	log.Info("Profile service stopped")
}

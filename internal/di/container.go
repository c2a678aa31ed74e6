// Package di provides dependency injection configuration for the Shelfline
// services.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelfline/shelfline-server/internal/auth"
	"github.com/shelfline/shelfline-server/internal/config"
	"github.com/shelfline/shelfline-server/internal/di/providers"
	"github.com/shelfline/shelfline-server/internal/inventory"
	"github.com/shelfline/shelfline-server/internal/logger"
	"github.com/shelfline/shelfline-server/internal/ratelimit"
	"github.com/shelfline/shelfline-server/internal/service"
)

// NewLoanContainer creates the DI container for the loan service.
func NewLoanContainer() *do.RootScope {
	injector := do.New()

	do.Provide(injector, providers.ConfigProvider(config.LoanAPI))
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideInventoryClient)
	do.Provide(injector, providers.ProvideLoanService)
	do.Provide(injector, providers.ProvideLoanHTTPServer)

	return injector
}

// BootstrapLoan invokes the loan service dependency graph, starting the
// HTTP server.
func BootstrapLoan(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*inventory.Client](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.LoanService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}

// NewProfileContainer creates the DI container for the profile service.
func NewProfileContainer() *do.RootScope {
	injector := do.New()

	do.Provide(injector, providers.ConfigProvider(config.ProfileAPI))
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideProfileHTTPServer)

	return injector
}

// BootstrapProfile invokes the profile service dependency graph, starting the
// HTTP server.
func BootstrapProfile(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*ratelimit.KeyedRateLimiter](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.ProfileService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}

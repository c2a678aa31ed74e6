package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfline/shelfline-server/internal/auth"
	"github.com/shelfline/shelfline-server/internal/inventory"
	"github.com/shelfline/shelfline-server/internal/logger"
	"github.com/shelfline/shelfline-server/internal/service"
)

// ProvideLoanService provides the loan business service.
func ProvideLoanService(i do.Injector) (*service.LoanService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*inventory.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLoanService(storeHandle.Store, client, log.Logger), nil
}

// ProvideProfileService provides the profile business service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, tokens, log.Logger), nil
}

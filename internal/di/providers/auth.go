package providers

import (
	"encoding/hex"

	"github.com/samber/do/v2"

	"github.com/shelfline/shelfline-server/internal/auth"
	"github.com/shelfline/shelfline-server/internal/config"
	"github.com/shelfline/shelfline-server/internal/logger"
	"github.com/shelfline/shelfline-server/internal/ratelimit"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the token signing key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Store.DataPath)
	if err != nil {
		return nil, err
	}

	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(hex.EncodeToString(authKey), cfg.Auth.AccessTokenDuration)
}

// ProvideLoginLimiter provides the per-IP login rate limiter.
func ProvideLoginLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return ratelimit.New(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst), nil
}

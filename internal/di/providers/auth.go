package providers

import (
	"github.com/samber/do/v2"

	"github.com/flashlyapp/flashly-server/internal/api"
	"github.com/flashlyapp/flashly-server/internal/auth"
	"github.com/flashlyapp/flashly-server/internal/config"
	"github.com/flashlyapp/flashly-server/internal/logger"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey resolves the PASETO key: the configured key first, then the
// key file, then a fresh key that lives as long as the process.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch {
	case len(cfg.Auth.AccessTokenKey) > 0:
		log.Info("Authentication key loaded from configuration")
		return AuthKey(cfg.Auth.AccessTokenKey), nil

	case cfg.Auth.KeyFile != "":
		key, err := auth.LoadOrGenerateKey(cfg.Auth.KeyFile)
		if err != nil {
			return nil, err
		}
		cfg.Auth.AccessTokenKey = key
		log.Info("Authentication key loaded", "path", cfg.Auth.KeyFile)
		return AuthKey(key), nil

	default:
		key, err := auth.GenerateKey()
		if err != nil {
			return nil, err
		}
		cfg.Auth.AccessTokenKey = key
		log.Warn("No authentication key configured, tokens will not survive a restart")
		return AuthKey(key), nil
	}
}

// ProvideTokenCodec provides the bearer token codec for the configured mode.
func ProvideTokenCodec(i do.Injector) (api.TokenCodec, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenMode == config.TokenModePlain {
		log.Warn("Plain bearer tokens enabled, any user id is accepted as a token")
		return api.PlainTokens{}, nil
	}

	key := do.MustInvoke[AuthKey](i)
	tokenService, err := auth.NewTokenService(key, cfg.Auth.AccessTokenDuration)
	if err != nil {
		return nil, err
	}

	log.Info("PASETO tokens enabled", "access_token_duration", cfg.Auth.AccessTokenDuration)

	return api.NewPASETOTokens(tokenService), nil
}

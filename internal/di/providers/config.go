// Package providers contains dependency injection providers for the Flashly server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/flashlyapp/flashly-server/internal/config"
	"github.com/flashlyapp/flashly-server/internal/logger"
)

// ProvideConfig returns a provider loading the configuration from args,
// the environment and the .env file.
func ProvideConfig(args []string) do.Provider[*config.Config] {
	return func(i do.Injector) (*config.Config, error) {
		return config.LoadConfig(args)
	}
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.IsDevelopment(),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Flashly Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"store", cfg.Store.Backend,
		"token_mode", cfg.Auth.TokenMode,
	)

	return log, nil
}

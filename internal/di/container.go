// Package di provides dependency injection configuration for the Flashly server.
package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/flashlyapp/flashly-server/internal/api"
	"github.com/flashlyapp/flashly-server/internal/auth"
	"github.com/flashlyapp/flashly-server/internal/config"
	"github.com/flashlyapp/flashly-server/internal/di/providers"
	"github.com/flashlyapp/flashly-server/internal/logger"
	"github.com/flashlyapp/flashly-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line flags handed to the config loader.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig(args))
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvidePasswordHasher)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenCodec)
	do.Provide(injector, providers.ProvideAuthRateLimiter)

	// Façade
	do.Provide(injector, providers.ProvideRuntime)
	do.Provide(injector, providers.ProvideServices)

	// Server
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*auth.PasswordHasher](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	if _, err := do.Invoke[api.TokenCodec](injector); err != nil {
		return fmt.Errorf("configure tokens: %w", err)
	}
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	_ = do.MustInvoke[*service.Runtime](injector)
	_ = do.MustInvoke[*service.Services](injector)

	// The index is rebuilt before the server accepts requests.
	if err := providers.ReindexDecks(injector); err != nil {
		return fmt.Errorf("reindex decks: %w", err)
	}

	_ = do.MustInvoke[*api.Metrics](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}

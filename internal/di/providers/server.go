package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/flashlyapp/flashly-server/internal/api"
	"github.com/flashlyapp/flashly-server/internal/config"
	"github.com/flashlyapp/flashly-server/internal/logger"
	"github.com/flashlyapp/flashly-server/internal/ratelimit"
	"github.com/flashlyapp/flashly-server/internal/service"
)

// RateLimiterHandle wraps the auth rate limiter with shutdown capability.
// Limiter is nil when rate limiting is disabled.
type RateLimiterHandle struct {
	Limiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ProvideAuthRateLimiter provides the per-IP login and register limiter.
func ProvideAuthRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.RateLimit.AuthPerMinute <= 0 {
		log.Warn("Auth rate limiting disabled")
		return &RateLimiterHandle{}, nil
	}

	return &RateLimiterHandle{
		Limiter: ratelimit.PerMinute(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst),
	}, nil
}

// ProvideMetrics provides the Prometheus metrics registry.
func ProvideMetrics(i do.Injector) (*api.Metrics, error) {
	return api.NewMetrics(), nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	Handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	services := do.MustInvoke[*service.Services](i)
	tokens := do.MustInvoke[api.TokenCodec](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)
	metrics := do.MustInvoke[*api.Metrics](i)

	handler := api.NewServer(api.Options{
		Services:       services,
		Store:          storeHandle.Store,
		Tokens:         tokens,
		Search:         indexHandle.DeckIndex,
		Metrics:        metrics,
		AuthLimiter:    limiter.Limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log.WithComponent("http"),
	})

	srv := api.NewHTTPServer(":"+cfg.Server.Port, handler,
		cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, Handler: handler}, nil
}

package providers

import (
	"github.com/samber/do/v2"

	"github.com/flashlyapp/flashly-server/internal/auth"
	"github.com/flashlyapp/flashly-server/internal/config"
	"github.com/flashlyapp/flashly-server/internal/logger"
	"github.com/flashlyapp/flashly-server/internal/service"
	"github.com/flashlyapp/flashly-server/internal/validation"
)

// ProvideRuntime provides the state shared by the façade services.
func ProvideRuntime(i do.Injector) (*service.Runtime, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	if cfg.Facade.Latency > 0 {
		log.Info("Simulated latency enabled", "latency", cfg.Facade.Latency)
	}

	return service.NewRuntime(storeHandle.Store, service.RuntimeConfig{
		Latency: cfg.Facade.Latency,
		Index:   indexHandle.DeckIndex,
		Logger:  log.WithComponent("service"),
	}), nil
}

// ProvideServices provides the façade services.
func ProvideServices(i do.Injector) (*service.Services, error) {
	rt := do.MustInvoke[*service.Runtime](i)
	hasher := do.MustInvoke[*auth.PasswordHasher](i)

	return service.New(rt, hasher, validation.New()), nil
}

package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/flashlyapp/flashly-server/internal/auth"
	"github.com/flashlyapp/flashly-server/internal/config"
	"github.com/flashlyapp/flashly-server/internal/logger"
	"github.com/flashlyapp/flashly-server/internal/store"
	"github.com/flashlyapp/flashly-server/internal/store/badgerstore"
	"github.com/flashlyapp/flashly-server/internal/store/redisstore"
	"github.com/flashlyapp/flashly-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
	// Seeded reports whether the seed fixture was loaded on startup.
	Seeded bool
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvidePasswordHasher provides the argon2id password hasher.
func ProvidePasswordHasher(i do.Injector) (*auth.PasswordHasher, error) {
	return auth.NewPasswordHasher(auth.DefaultParams), nil
}

// ProvideStore opens the configured backend and loads the seed fixture into
// it when it is empty and seeding is enabled.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	hasher := do.MustInvoke[*auth.PasswordHasher](i)

	ctx := context.Background()

	backend, err := OpenBackend(ctx, cfg.Store, log)
	if err != nil {
		return nil, err
	}
	st := store.New(backend, log.WithComponent("store"))

	handle := &StoreHandle{Store: st}
	if cfg.Store.Seed {
		seeded, err := store.SeedIfEmpty(ctx, st, hasher)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
		handle.Seeded = seeded
	}

	log.Info("Store initialized", "backend", backend.Name(), "seeded", handle.Seeded)

	return handle, nil
}

// OpenBackend opens the backend named by cfg.Backend.
func OpenBackend(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		b, err := sqlite.Open(cfg.SQLitePath, log.WithComponent("sqlite"))
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return b, nil
	case config.BackendRedis:
		b, err := redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			Logger:   log.WithComponent("redis"),
		})
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return b, nil
	case config.BackendBadger:
		b, err := badgerstore.Open(badgerstore.Options{
			Path:   cfg.BadgerPath,
			Logger: log.WithComponent("badger"),
		})
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		return b, nil
	case config.BackendMemory, "":
		return store.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

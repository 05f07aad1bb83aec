// Package main loads the Flashly seed fixture into the configured store.
//
// It accepts the same flags and environment as the server:
//
//	go run ./cmd/seed -store sqlite -sqlite-path flashly.db
//	STORE_BACKEND=redis REDIS_ADDR=localhost:6379 go run ./cmd/seed
//
// A store that already holds users or decks is left untouched.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/flashlyapp/flashly-server/internal/auth"
	"github.com/flashlyapp/flashly-server/internal/config"
	"github.com/flashlyapp/flashly-server/internal/di/providers"
	"github.com/flashlyapp/flashly-server/internal/logger"
	"github.com/flashlyapp/flashly-server/internal/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	ctx := context.Background()

	backend, err := providers.OpenBackend(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	st := store.New(backend, log.WithComponent("store"))
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("Failed to close store", "error", err)
		}
	}()

	seeded, err := store.SeedIfEmpty(ctx, st, auth.NewPasswordHasher(auth.DefaultParams))
	if err != nil {
		return err
	}

	if !seeded {
		log.Info("Store is not empty, nothing seeded", "backend", backend.Name())
		return nil
	}

	log.Info("Seed fixture loaded",
		"backend", backend.Name(),
		"users", []string{store.SeedUserNicholas, store.SeedUserJohn},
		"decks", []string{store.SeedDeckTest, store.SeedDeckMath, store.SeedDeckFrench},
	)
	return nil
}

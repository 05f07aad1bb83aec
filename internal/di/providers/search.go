package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/flashlyapp/flashly-server/internal/config"
	"github.com/flashlyapp/flashly-server/internal/logger"
	"github.com/flashlyapp/flashly-server/internal/search"
	"github.com/flashlyapp/flashly-server/internal/service"
)

// SearchIndexHandle wraps the deck index with shutdown capability.
type SearchIndexHandle struct {
	*search.DeckIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve deck index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewDeckIndex(search.Options{
		DataPath: cfg.Search.IndexPath,
		Logger:   log.WithComponent("search"),
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount, "in_memory", cfg.Search.IndexPath == "")

	return &SearchIndexHandle{DeckIndex: index}, nil
}

// ReindexDecks rebuilds the deck index from the store. The store is the
// source of truth, so this runs on every start.
func ReindexDecks(i do.Injector) error {
	services := do.MustInvoke[*service.Services](i)
	log := do.MustInvoke[*logger.Logger](i)

	n, err := services.Decks.Reindex(context.Background())
	if err != nil {
		return err
	}

	log.Info("Search index rebuilt", "public_decks", n)
	return nil
}

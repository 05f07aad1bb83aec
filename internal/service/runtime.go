package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/flashlyapp/flashly-server/internal/domain"
	"github.com/flashlyapp/flashly-server/internal/search"
	"github.com/flashlyapp/flashly-server/internal/store"
)

// DeckIndexer keeps the deck search index in sync with the store.
type DeckIndexer interface {
	IndexDeck(ctx context.Context, deck *domain.DeckView) error
	IndexDecks(ctx context.Context, decks []*domain.DeckView) error
	RemoveDeck(ctx context.Context, id string) error
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
}

// NoopDeckIndexer indexes nothing and finds nothing.
type NoopDeckIndexer struct{}

func (NoopDeckIndexer) IndexDeck(context.Context, *domain.DeckView) error { return nil }
func (NoopDeckIndexer) IndexDecks(context.Context, []*domain.DeckView) error { return nil }
func (NoopDeckIndexer) RemoveDeck(context.Context, string) error { return nil }
func (NoopDeckIndexer) Search(_ context.Context, p search.SearchParams) (*search.SearchResult, error) {
	return &search.SearchResult{Query: p.Query, Hits: []search.SearchHit{}}, nil
}

// NewNoopDeckIndexer creates a no-op deck indexer for testing.
func NewNoopDeckIndexer() DeckIndexer { return NoopDeckIndexer{} }

// RuntimeConfig configures a Runtime. Zero values are usable.
type RuntimeConfig struct {
	// Latency is waited before every operation, simulating a remote backend.
	Latency time.Duration
	Index   DeckIndexer
	Logger  *slog.Logger
	Now     func() time.Time
}

// Runtime is the state shared by every façade service: the store, the
// search index and the lock that makes each operation atomic.
type Runtime struct {
	store   *store.Store
	index   DeckIndexer
	logger  *slog.Logger
	now     func() time.Time
	latency time.Duration

	mu sync.Mutex
}

// NewRuntime creates a runtime over s.
func NewRuntime(s *store.Store, cfg RuntimeConfig) *Runtime {
	rt := &Runtime{
		store:   s,
		index:   cfg.Index,
		logger:  cfg.Logger,
		now:     cfg.Now,
		latency: cfg.Latency,
	}
	if rt.index == nil {
		rt.index = NewNoopDeckIndexer()
	}
	if rt.logger == nil {
		rt.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if rt.now == nil {
		rt.now = func() time.Time { return time.Now().UTC() }
	}
	return rt
}

// Store returns the underlying store.
func (rt *Runtime) Store() *store.Store {
	return rt.store
}

// enter waits out the configured latency, then takes the operation lock.
// A context cancelled during the wait returns its error and nothing is mutated.
// Callers must invoke the returned release func.
func (rt *Runtime) enter(ctx context.Context) (release func(), err error) {
	if rt.latency > 0 {
		timer := time.NewTimer(rt.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	rt.mu.Lock()
	return rt.mu.Unlock, nil
}

// syncIndex brings the search index in line with deck. Public decks are
// indexed, private ones removed. Failures are logged; search lags behind
// the store rather than failing the mutation.
func (rt *Runtime) syncIndex(ctx context.Context, deck *domain.Deck) {
	if !deck.IsPublic() {
		rt.unindex(ctx, deck.ID)
		return
	}

	view, err := rt.deckView(ctx, deck)
	if err != nil {
		rt.logger.Warn("failed to hydrate deck for indexing", "deck_id", deck.ID, "error", err)
		return
	}
	if err := rt.index.IndexDeck(ctx, &view); err != nil {
		rt.logger.Warn("failed to index deck", "deck_id", deck.ID, "error", err)
	}
}

func (rt *Runtime) unindex(ctx context.Context, deckID string) {
	if err := rt.index.RemoveDeck(ctx, deckID); err != nil {
		rt.logger.Warn("failed to remove deck from index", "deck_id", deckID, "error", err)
	}
}

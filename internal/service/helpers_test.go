package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlyapp/flashly-server/internal/auth"
	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
	"github.com/flashlyapp/flashly-server/internal/search"
	"github.com/flashlyapp/flashly-server/internal/store"
	"github.com/flashlyapp/flashly-server/internal/validation"
)

// testClock advances one second per reading so every mutation gets a
// distinct, increasing timestamp.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// setupTest creates services over a seeded in-memory store with a live
// in-memory search index.
func setupTest(t *testing.T) (*Services, *Runtime) {
	t.Helper()
	return setupTestWithStore(t, true)
}

func setupTestWithStore(t *testing.T, seed bool) (*Services, *Runtime) {
	t.Helper()
	ctx := context.Background()

	s := store.NewMemory()
	hasher := auth.NewPasswordHasher(auth.MinimalParams)
	if seed {
		require.NoError(t, store.Seed(ctx, s, hasher))
	}

	index, err := search.NewDeckIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	clock := &testClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rt := NewRuntime(s, RuntimeConfig{Index: index, Now: clock.Now})
	svc := New(rt, hasher, validation.New())

	_, err = svc.Decks.Reindex(ctx)
	require.NoError(t, err)

	return svc, rt
}

func requireDomainError(t *testing.T, err error, code domainerrors.Code, msg string) {
	t.Helper()
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
	assert.Equal(t, msg, domainErr.Message)
}

func deckIDs(t *testing.T, result *DecksResult) []string {
	t.Helper()
	require.NotNil(t, result)
	ids := make([]string, len(result.Decks))
	for i, d := range result.Decks {
		ids[i] = d.ID
	}
	return ids
}

func ptr[T any](v T) *T { return &v }

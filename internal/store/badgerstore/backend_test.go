package badgerstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlyapp/flashly-server/internal/store"
	"github.com/flashlyapp/flashly-server/internal/store/storetest"
)

func setupTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBackend(t *testing.T) {
	storetest.RunBackendTests(t, func(t *testing.T) store.Backend {
		return setupTestBackend(t)
	})
}

func TestBackend_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "flashly.badger")
	ctx := context.Background()

	b, err := Open(Options{Path: dir})
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "decks", "agfa0921", []byte(`{"id":"agfa0921"}`)))
	require.NoError(t, b.Put(ctx, "decks", "dech5321", []byte(`{"id":"dech5321"}`)))
	require.NoError(t, b.Close())

	b, err = Open(Options{Path: dir})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	list, err := b.List(ctx, "decks")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.JSONEq(t, `{"id":"agfa0921"}`, string(list[0]))

	// The counter survives too, so new inserts land after old ones.
	require.NoError(t, b.Put(ctx, "decks", "bsd3s2s", []byte(`{"id":"bsd3s2s"}`)))
	list, err = b.List(ctx, "decks")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.JSONEq(t, `{"id":"bsd3s2s"}`, string(list[2]))
}

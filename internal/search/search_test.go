package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlyapp/flashly-server/internal/domain"
)

// setupTestIndex creates an in-memory search index for testing.
func setupTestIndex(t *testing.T) *DeckIndex {
	t.Helper()

	index, err := NewDeckIndex(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func testDecks() []*domain.DeckView {
	now := time.UnixMilli(100005).UTC()
	return []*domain.DeckView{
		{
			ID:            "agfa0921",
			Name:          "Math Basics",
			Description:   "A deck for basic math problems",
			PublishStatus: domain.PublishStatusPublic,
			Categories:    []domain.Category{{Record: domain.Record{ID: "edf342"}, Name: "Math"}},
			OwnerID:       "agew2153",
			Cards: []domain.Card{
				{Record: domain.Record{ID: "red123"}, FrontText: "1 + 1", BackText: "2"},
			},
			UpdatedAt: now,
		},
		{
			ID:            "dech5321",
			Name:          "Français débutant",
			PublishStatus: domain.PublishStatusPublic,
			OwnerID:       "agew2153",
			Cards: []domain.Card{
				{Record: domain.Record{ID: "fr1"}, FrontText: "bonjour", BackText: "hello"},
			},
			UpdatedAt: now,
		},
		{
			ID:            "geo00001",
			Name:          "World Capitals",
			Description:   "Countries and their capital cities",
			PublishStatus: domain.PublishStatusPublic,
			OwnerID:       "bvwr4021",
			UpdatedAt:     now,
		},
	}
}

func TestNewDeckIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestDeckIndex_IndexAndRemove(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexDeck(ctx, testDecks()[0]))
	// Re-indexing replaces rather than duplicates.
	require.NoError(t, index.IndexDeck(ctx, testDecks()[0]))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, index.RemoveDeck(ctx, "agfa0921"))
	require.NoError(t, index.RemoveDeck(ctx, "never-indexed"))

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestDeckIndex_Search(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()
	require.NoError(t, index.IndexDecks(ctx, testDecks()))

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"by name", "capitals", "geo00001"},
		{"by category", "math", "agfa0921"},
		{"by card text", "bonjour", "dech5321"},
		{"by description", "countries", "geo00001"},
		{"prefix", "capi", "geo00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := index.Search(ctx, SearchParams{Query: tt.query, Limit: 10})
			require.NoError(t, err)
			require.NotEmpty(t, result.Hits)
			assert.Equal(t, tt.want, result.Hits[0].ID)
		})
	}
}

func TestDeckIndex_Search_NoMatch(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()
	require.NoError(t, index.IndexDecks(ctx, testDecks()))

	result, err := index.Search(ctx, SearchParams{Query: "zzzzqqqq", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), result.Total)
	assert.Empty(t, result.IDs())
}

func TestDeckIndex_Search_EmptyQueryMatchesAll(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()
	require.NoError(t, index.IndexDecks(ctx, testDecks()))

	result, err := index.Search(ctx, SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Total)
	assert.ElementsMatch(t, []string{"agfa0921", "dech5321", "geo00001"}, result.IDs())
}

func TestDeckIndex_Search_ByOwner(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()
	require.NoError(t, index.IndexDecks(ctx, testDecks()))

	result, err := index.Search(ctx, SearchParams{OwnerID: "bvwr4021", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"geo00001"}, result.IDs())
}

func TestDeckIndex_Search_StoredFields(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()
	require.NoError(t, index.IndexDecks(ctx, testDecks()))

	result, err := index.Search(ctx, SearchParams{Query: "math", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "Math Basics", result.Hits[0].Name)
	assert.Equal(t, 1, result.Hits[0].CardCount)
}

func TestDeckIndex_Rebuild(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexDecks(context.Background(), testDecks()))

	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestDeckIndex_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	index1, err := NewDeckIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index1.IndexDeck(ctx, testDecks()[2]))
	require.NoError(t, index1.Close())

	index2, err := NewDeckIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer index2.Close()

	count, err := index2.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	result, err := index2.Search(ctx, SearchParams{Query: "capitals", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
}

func TestDeckToDocument(t *testing.T) {
	doc := DeckToDocument(testDecks()[0])

	assert.Equal(t, "agfa0921", doc.ID)
	assert.Equal(t, "Math Basics", doc.Name)
	assert.Equal(t, []string{"1 + 1", "2"}, doc.Cards)
	assert.Equal(t, []string{"Math"}, doc.Categories)
	assert.Equal(t, 1, doc.CardCount)
	assert.Equal(t, int64(100005), doc.UpdatedAt)

	m := doc.ToMap()
	assert.Equal(t, "agew2153", m["owner_id"])
	assert.NotContains(t, DeckToDocument(testDecks()[2]).ToMap(), "cards")
}

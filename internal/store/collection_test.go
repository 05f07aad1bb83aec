package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlyapp/flashly-server/internal/domain"
	"github.com/flashlyapp/flashly-server/internal/store"
)

func TestCollection_RoundTripsTimestamps(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	deck := &domain.Deck{
		Record:        domain.Record{ID: "abc12345", CreatedAt: created, UpdatedAt: created},
		Name:          "Capitals",
		PublishStatus: domain.PublishStatusPublic,
		CardIDs:       []string{"c1", "c2"},
	}
	require.NoError(t, s.Decks.Insert(ctx, deck))

	got, err := s.Decks.FindByID(ctx, "abc12345")
	require.NoError(t, err)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, []string{"c1", "c2"}, got.CardIDs)
	assert.Equal(t, domain.PublishStatusPublic, got.PublishStatus)
}

func TestCollection_ReturnsCopies(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Categories.Insert(ctx, &domain.Category{Record: domain.Record{ID: "cat1"}, Name: "Math"}))

	first, err := s.Categories.FindByID(ctx, "cat1")
	require.NoError(t, err)
	first.Name = "mutated but not saved"

	second, err := s.Categories.FindByID(ctx, "cat1")
	require.NoError(t, err)
	assert.Equal(t, "Math", second.Name)
}

func TestCollection_Filter(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	for _, d := range []domain.Deck{
		{Record: domain.Record{ID: "d1"}, PublishStatus: domain.PublishStatusPublic},
		{Record: domain.Record{ID: "d2"}, PublishStatus: domain.PublishStatusPrivate},
		{Record: domain.Record{ID: "d3"}, PublishStatus: domain.PublishStatusPublic},
	} {
		require.NoError(t, s.Decks.Insert(ctx, &d))
	}

	public, err := s.Decks.Filter(ctx, (*domain.Deck).IsPublic)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "d1", public[0].ID)
	assert.Equal(t, "d3", public[1].ID)

	n, err := s.Decks.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCollection_FindManySkipsMissing(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	for _, c := range []domain.Card{
		{Record: domain.Record{ID: "c1"}, FrontText: "1 + 1"},
		{Record: domain.Record{ID: "c2"}, FrontText: "6 + 8"},
	} {
		require.NoError(t, s.Cards.Insert(ctx, &c))
	}

	cards, err := s.Cards.FindMany(ctx, []string{"c2", "gone", "c1"})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "c2", cards[0].ID)
	assert.Equal(t, "c1", cards[1].ID)

	none, err := s.Cards.FindMany(ctx, []string{"gone"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_IsEmptyAndClose(t *testing.T) {
	s := store.NewMemory()

	empty, err := s.IsEmpty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)

	assert.Equal(t, "memory", s.Backend().Name())
	assert.NoError(t, s.Close())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "johndoe@gmail.com", store.NormalizeEmail("  JohnDoe@GMAIL.com\t"))
}

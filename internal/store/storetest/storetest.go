// Package storetest holds the behavior every store.Backend must satisfy,
// shared by the memory, sqlite and redis backend tests.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlyapp/flashly-server/internal/auth"
	"github.com/flashlyapp/flashly-server/internal/domain"
	"github.com/flashlyapp/flashly-server/internal/store"
)

// NewBackendFunc returns a fresh, empty backend. It should register its own cleanup.
type NewBackendFunc func(t *testing.T) store.Backend

// RunBackendTests runs the backend contract against newBackend.
func RunBackendTests(t *testing.T, newBackend NewBackendFunc) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) {
		b := newBackend(t)
		_, err := b.Get(context.Background(), "decks", "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("PutGet", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		require.NoError(t, b.Put(ctx, "decks", "agfa0921", []byte(`{"id":"agfa0921"}`)))

		got, err := b.Get(ctx, "decks", "agfa0921")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"agfa0921"}`, string(got))
	})

	t.Run("ListKeepsInsertionOrder", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, b.Put(ctx, "cards", id, []byte(fmt.Sprintf(`{"id":%q}`, id))))
		}
		// Replacing keeps the original position.
		require.NoError(t, b.Put(ctx, "cards", "c", []byte(`{"id":"c","v":2}`)))

		list, err := b.List(ctx, "cards")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.JSONEq(t, `{"id":"c","v":2}`, string(list[0]))
		assert.JSONEq(t, `{"id":"a"}`, string(list[1]))
		assert.JSONEq(t, `{"id":"b"}`, string(list[2]))
	})

	t.Run("Delete", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		require.NoError(t, b.Put(ctx, "users", "u1", []byte(`{"id":"u1"}`)))
		require.NoError(t, b.Put(ctx, "users", "u2", []byte(`{"id":"u2"}`)))
		require.NoError(t, b.Delete(ctx, "users", "u1"))

		_, err := b.Get(ctx, "users", "u1")
		assert.ErrorIs(t, err, store.ErrNotFound)

		list, err := b.List(ctx, "users")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.JSONEq(t, `{"id":"u2"}`, string(list[0]))

		assert.ErrorIs(t, b.Delete(ctx, "users", "u1"), store.ErrNotFound)
	})

	t.Run("CollectionsAreIsolated", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		require.NoError(t, b.Put(ctx, "decks", "same", []byte(`{"kind":"deck"}`)))
		require.NoError(t, b.Put(ctx, "cards", "same", []byte(`{"kind":"card"}`)))

		got, err := b.Get(ctx, "decks", "same")
		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"deck"}`, string(got))

		empty, err := b.List(ctx, "categories")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		b := newBackend(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, b.Put(ctx, "decks", "x", []byte(`{}`)))
		_, err := b.Get(ctx, "decks", "x")
		assert.Error(t, err)
	})

	t.Run("Store", func(t *testing.T) {
		RunStoreTests(t, newBackend)
	})
}

// RunStoreTests exercises the typed store and the seed fixture over a backend.
func RunStoreTests(t *testing.T, newBackend NewBackendFunc) {
	t.Helper()

	newSeeded := func(t *testing.T) *store.Store {
		t.Helper()
		s := store.New(newBackend(t), nil)
		require.NoError(t, store.Seed(context.Background(), s, auth.NewPasswordHasher(auth.MinimalParams)))
		return s
	}

	t.Run("SeedFixture", func(t *testing.T) {
		s := newSeeded(t)
		ctx := context.Background()

		john, err := s.Users.FindByID(ctx, store.SeedUserJohn)
		require.NoError(t, err)
		assert.Equal(t, "JohnD", john.Username)
		assert.Equal(t, []string{store.SeedUserNicholas}, john.FollowingIDs)
		assert.NotEmpty(t, john.PasswordHash)
		assert.NotEqual(t, "jd2025", john.PasswordHash)

		decks, err := s.Decks.All(ctx)
		require.NoError(t, err)
		require.Len(t, decks, 3)
		assert.Equal(t, store.SeedDeckTest, decks[0].ID)
		assert.Equal(t, store.SeedDeckMath, decks[1].ID)
		assert.Equal(t, store.SeedDeckFrench, decks[2].ID)
		assert.Equal(t, 4.8, decks[1].Rating)

		follow, err := s.Followers.GetByIndex(ctx, store.IndexPair, store.FollowKey(store.SeedUserJohn, store.SeedUserNicholas))
		require.NoError(t, err)
		assert.Equal(t, "ffag2431", follow.ID)

		empty, err := s.IsEmpty(ctx)
		require.NoError(t, err)
		assert.False(t, empty)
	})

	t.Run("SeedIfEmpty", func(t *testing.T) {
		s := store.New(newBackend(t), nil)
		hasher := auth.NewPasswordHasher(auth.MinimalParams)

		seeded, err := store.SeedIfEmpty(context.Background(), s, hasher)
		require.NoError(t, err)
		assert.True(t, seeded)

		seeded, err = store.SeedIfEmpty(context.Background(), s, hasher)
		require.NoError(t, err)
		assert.False(t, seeded)

		count, err := s.Users.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("InsertUpdateRemove", func(t *testing.T) {
		s := newSeeded(t)
		ctx := context.Background()

		card := &domain.Card{Record: domain.Record{ID: "zz9plural"}, FrontText: "2 + 2", BackText: "4", DeckID: store.SeedDeckMath}
		require.NoError(t, s.Cards.Insert(ctx, card))
		assert.ErrorIs(t, s.Cards.Insert(ctx, card), store.ErrAlreadyExists)

		card.BackText = "four"
		require.NoError(t, s.Cards.Update(ctx, card))

		got, err := s.Cards.FindByID(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, "four", got.BackText)

		require.NoError(t, s.Cards.RemoveByID(ctx, card.ID))
		_, err = s.Cards.FindByID(ctx, card.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.Cards.RemoveByID(ctx, card.ID), store.ErrNotFound)
		assert.ErrorIs(t, s.Cards.Update(ctx, card), store.ErrNotFound)
	})

	t.Run("Indexes", func(t *testing.T) {
		s := newSeeded(t)
		ctx := context.Background()

		user, err := s.Users.GetByIndex(ctx, store.IndexEmail, "  JohnDoe@Gmail.com ")
		require.NoError(t, err)
		assert.Equal(t, store.SeedUserJohn, user.ID)

		_, err = s.Users.GetByIndex(ctx, store.IndexEmail, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrNotFound)

		cards, err := s.Cards.ListByIndex(ctx, store.IndexDeck, store.SeedDeckMath)
		require.NoError(t, err)
		assert.Len(t, cards, 2)

		owned, err := s.Decks.ListByIndex(ctx, store.IndexOwner, store.SeedUserNicholas)
		require.NoError(t, err)
		assert.Len(t, owned, 3)

		_, err = s.Decks.ListByIndex(ctx, "color", "red")
		assert.ErrorIs(t, err, store.ErrUnknownIndex)
	})

	t.Run("FindManyDropsDangling", func(t *testing.T) {
		s := newSeeded(t)

		cards, err := s.Cards.FindMany(context.Background(), []string{store.SeedCardSixPlus, "ghost", store.SeedCardOnePlus})
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, store.SeedCardSixPlus, cards[0].ID)
		assert.Equal(t, store.SeedCardOnePlus, cards[1].ID)
	})
}

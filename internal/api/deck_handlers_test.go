package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlyapp/flashly-server/internal/service"
	"github.com/flashlyapp/flashly-server/internal/store"
)

func deckIDsOf(result service.DecksResult) []string {
	ids := make([]string, len(result.Decks))
	for i, d := range result.Decks {
		ids[i] = d.ID
	}
	return ids
}

func TestExplore(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/decks/explore")

	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[service.DecksResult](t, resp)
	assert.Equal(t, "Explore loaded successfully", result.Message)
	assert.Equal(t, []string{store.SeedDeckMath, store.SeedDeckFrench}, deckIDsOf(result))
	require.Len(t, result.Decks[0].Cards, 2)
	require.Len(t, result.Decks[0].Categories, 1)
	assert.Equal(t, "Math", result.Decks[0].Categories[0].Name)
}

func TestExplore_Search(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/decks/explore?q=math")

	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[service.DecksResult](t, resp)
	assert.Equal(t, []string{store.SeedDeckMath}, deckIDsOf(result))

	resp = ts.api.Get("/api/decks/explore?q=progress")
	require.Equal(t, http.StatusOK, resp.Code)
	result = decode[service.DecksResult](t, resp)
	assert.Empty(t, result.Decks, "private decks are never searchable")
	assert.Equal(t, "No decks match your search", result.Message)
}

func TestFeed(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/decks/feed", ts.loginJohn(t))
	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[service.DecksResult](t, resp)
	assert.ElementsMatch(t, []string{store.SeedDeckMath, store.SeedDeckFrench}, deckIDsOf(result))

	resp = ts.api.Get("/api/decks/feed", ts.loginNicholas(t))
	require.Equal(t, http.StatusOK, resp.Code)
	result = decode[service.DecksResult](t, resp)
	assert.Empty(t, result.Decks)
	assert.Equal(t, "No decks found for your feed", result.Message)
}

func TestMyDecks(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/decks", ts.loginNicholas(t))

	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[service.DecksResult](t, resp)
	assert.Equal(t, "Decks loaded successfully", result.Message)
	assert.Len(t, result.Decks, 3)
}

func TestGetDeck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/decks/" + store.SeedDeckMath)
	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[service.DeckResult](t, resp)
	assert.Equal(t, "Math Basics", result.Deck.Name)
	assert.InDelta(t, 4.8, result.Deck.Rating, 0.001)

	resp = ts.api.Get("/api/decks/missing")
	requireAPIError(t, resp, http.StatusNotFound, "NOT_FOUND", "Deck not found")
}

func TestCreateUpdateDeleteDeck(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.loginJohn(t)

	resp := ts.api.Post("/api/decks", auth, map[string]any{
		"name":        "Capitals",
		"description": "World capitals",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decode[service.DeckResult](t, resp)
	assert.Equal(t, "Deck successfully created", created.Message)
	assert.Equal(t, store.SeedUserJohn, created.Deck.OwnerID)
	assert.Equal(t, "private", string(created.Deck.PublishStatus))
	deckID := created.Deck.ID

	resp = ts.api.Get("/api/decks/explore?q=capitals")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[service.DecksResult](t, resp).Decks)

	resp = ts.api.Put("/api/decks/"+deckID, auth, map[string]any{
		"publishStatus": "public",
		"categoryIds":   []string{store.SeedCategoryMath, "unknown"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	published := decode[service.DeckResult](t, resp)
	require.Len(t, published.Deck.Categories, 1)
	assert.Equal(t, store.SeedCategoryMath, published.Deck.Categories[0].ID)

	resp = ts.api.Get("/api/decks/explore?q=capitals")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{deckID}, deckIDsOf(decode[service.DecksResult](t, resp)))

	resp = ts.api.Put("/api/decks/"+deckID, auth, map[string]any{
		"name":          "European capitals",
		"publishStatus": "private",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decode[service.DeckResult](t, resp)
	assert.Equal(t, "European capitals", updated.Deck.Name)
	assert.Equal(t, "World capitals", updated.Deck.Description)

	resp = ts.api.Get("/api/decks/explore?q=capitals")
	assert.Empty(t, decode[service.DecksResult](t, resp).Decks)

	resp = ts.api.Delete("/api/decks/"+deckID, auth)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Deck successfully deleted", decode[service.MessageResult](t, resp).Message)

	resp = ts.api.Get("/api/decks/" + deckID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateDeck_Validation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/decks", ts.loginJohn(t), map[string]any{"description": "nameless"})

	requireAPIError(t, resp, http.StatusBadRequest, "VALIDATION", "Deck name is required")
}

func TestUpdateDeck_NotOwner(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Put("/api/decks/"+store.SeedDeckMath, ts.loginJohn(t), map[string]any{"name": "Mine now"})
	requireAPIError(t, resp, http.StatusForbidden, "FORBIDDEN", "You do not own this deck")

	resp = ts.api.Delete("/api/decks/"+store.SeedDeckMath, ts.loginJohn(t))
	requireAPIError(t, resp, http.StatusForbidden, "FORBIDDEN", "You do not own this deck")
}

func TestUpdateDeck_InvalidStatus(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Put("/api/decks/"+store.SeedDeckMath, ts.loginNicholas(t), map[string]any{"publishStatus": "draft"})

	requireAPIError(t, resp, http.StatusBadRequest, "VALIDATION", `Publish status must be "private" or "public"`)
}

func TestDeleteDeck_CascadesCards(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Delete("/api/decks/"+store.SeedDeckMath, ts.loginNicholas(t))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/decks/" + store.SeedDeckMath + "/cards/" + store.SeedCardOnePlus)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/decks/explore")
	assert.Equal(t, []string{store.SeedDeckFrench}, deckIDsOf(decode[service.DecksResult](t, resp)))
}

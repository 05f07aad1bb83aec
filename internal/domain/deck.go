package domain

import "slices"

// PublishStatus controls whether a deck shows up in explore and feeds.
type PublishStatus string

const (
	PublishStatusPrivate PublishStatus = "private"
	PublishStatusPublic  PublishStatus = "public"
)

// Valid checks if the status is known.
func (s PublishStatus) Valid() bool {
	return s == PublishStatusPrivate || s == PublishStatusPublic
}

// Deck is a named, ordered set of cards.
type Deck struct {
	Record
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	PublishStatus PublishStatus `json:"publishStatus"`
	CategoryIDs   []string      `json:"categoryIds"`
	OwnerID       string        `json:"ownerId"`
	Rating        float64       `json:"rating"` // 0.0 to 5.0, seeded only
	CardIDs       []string      `json:"cardIds"`
}

// IsPublic reports whether the deck is published.
func (d *Deck) IsPublic() bool {
	return d.PublishStatus == PublishStatusPublic
}

// IsOwnedBy reports whether userID authored the deck.
func (d *Deck) IsOwnedBy(userID string) bool {
	return d.OwnerID != "" && d.OwnerID == userID
}

// HasCard reports whether cardID belongs to the deck.
func (d *Deck) HasCard(cardID string) bool {
	return slices.Contains(d.CardIDs, cardID)
}

// AddCard appends cardID to the card order.
func (d *Deck) AddCard(cardID string) {
	d.CardIDs = appendID(d.CardIDs, cardID)
}

// RemoveCard drops cardID from the card order.
func (d *Deck) RemoveCard(cardID string) bool {
	var ok bool
	d.CardIDs, ok = removeID(d.CardIDs, cardID)
	return ok
}

// Difficulty is the self-assessed difficulty of a card.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Card is one front/back pair inside a deck.
type Card struct {
	Record
	FrontText     string     `json:"frontText"`
	BackText      string     `json:"backText"`
	Difficulty    Difficulty `json:"difficulty"`
	TimesReviewed int        `json:"timesReviewed"`
	SuccessRate   float64    `json:"successRate"`
	DeckID        string     `json:"deckId"`
}

// Category tags decks. Categories are static seed data.
type Category struct {
	Record
	Name string `json:"name"`
}

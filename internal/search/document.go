// Package search provides full-text search over public decks using Bleve.
// Decks are indexed with their card texts and category names denormalized
// so one query covers everything a learner might type.
package search

import (
	"github.com/flashlyapp/flashly-server/internal/domain"
)

// DeckDocument is the indexed form of a deck.
type DeckDocument struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Cards       []string `json:"cards,omitempty"`      // front and back texts
	Categories  []string `json:"categories,omitempty"` // category names
	OwnerID     string   `json:"owner_id,omitempty"`
	CardCount   int      `json:"card_count"`
	UpdatedAt   int64    `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *DeckDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"name":       d.Name,
		"card_count": d.CardCount,
		"updated_at": d.UpdatedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Cards) > 0 {
		m["cards"] = d.Cards
	}
	if len(d.Categories) > 0 {
		m["categories"] = d.Categories
	}
	if d.OwnerID != "" {
		m["owner_id"] = d.OwnerID
	}

	return m
}

// DeckToDocument converts a hydrated deck to a DeckDocument.
func DeckToDocument(deck *domain.DeckView) *DeckDocument {
	doc := &DeckDocument{
		ID:          deck.ID,
		Name:        deck.Name,
		Description: deck.Description,
		OwnerID:     deck.OwnerID,
		CardCount:   len(deck.Cards),
		UpdatedAt:   deck.UpdatedAt.UnixMilli(),
	}

	for _, card := range deck.Cards {
		if card.FrontText != "" {
			doc.Cards = append(doc.Cards, card.FrontText)
		}
		if card.BackText != "" {
			doc.Cards = append(doc.Cards, card.BackText)
		}
	}
	for _, category := range deck.Categories {
		doc.Categories = append(doc.Categories, category.Name)
	}

	return doc
}

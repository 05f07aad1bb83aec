package service

import "github.com/flashlyapp/flashly-server/internal/domain"

// Every façade operation returns a message plus its payload.

// MessageResult is returned by operations without a payload.
type MessageResult struct {
	Message string `json:"message"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Message string          `json:"message"`
	User    domain.AuthUser `json:"user"`
	// Token is the user id. The HTTP layer may swap it for a signed token.
	Token string `json:"token"`
}

// DecksResult is returned by the deck listings.
type DecksResult struct {
	Message string            `json:"message"`
	Decks   []domain.DeckView `json:"decks"`
}

// DeckResult is returned by single-deck operations.
type DeckResult struct {
	Message string          `json:"message"`
	Deck    domain.DeckView `json:"deck"`
}

// CardResult is returned by single-card operations.
type CardResult struct {
	Message string      `json:"message"`
	Card    domain.Card `json:"card"`
}

// CardsResult lists a deck's cards.
type CardsResult struct {
	Message string          `json:"message"`
	Deck    domain.DeckInfo `json:"deck"`
	Cards   []domain.Card   `json:"cards"`
}

// ProfileResult is returned by Profile and Settings.
type ProfileResult struct {
	Message    string                   `json:"message"`
	User       domain.UserProfile       `json:"user"`
	Statistics domain.ProfileStatistics `json:"statistics"`
}

// UsersResult lists followers or followed users.
type UsersResult struct {
	Message string               `json:"message"`
	Users   []domain.UserSummary `json:"users"`
	Count   int                  `json:"count"`
}

// CategoriesResult lists categories.
type CategoriesResult struct {
	Message    string            `json:"message"`
	Categories []domain.Category `json:"categories"`
}

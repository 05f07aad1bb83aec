package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flashlyapp/flashly-server/internal/domain"
	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
	"github.com/flashlyapp/flashly-server/internal/id"
	"github.com/flashlyapp/flashly-server/internal/store"
)

// CardService manages the cards of a deck.
type CardService struct {
	rt *Runtime
}

// NewCardService creates a new card service.
func NewCardService(rt *Runtime) *CardService {
	return &CardService{rt: rt}
}

// NewCardRequest adds a card to a deck.
type NewCardRequest struct {
	DeckID    string `json:"deckId"`
	FrontText string `json:"frontText"`
	BackText  string `json:"backText"`
}

// ModifyCardRequest replaces a card's texts.
type ModifyCardRequest struct {
	ID        string `json:"id"`
	FrontText string `json:"frontText"`
	BackText  string `json:"backText"`
}

// Cards lists the cards of a deck with a short deck header.
func (s *CardService) Cards(ctx context.Context, deckID string) (*CardsResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	deck, err := s.rt.findDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	cards, err := s.rt.store.Cards.FindMany(ctx, deck.CardIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve cards: %w", err)
	}

	msg := "Cards loaded successfully"
	if len(cards) == 0 {
		msg = "No cards found for this deck"
	}
	return &CardsResult{
		Message: msg,
		Deck:    domain.DeckInfo{ID: deck.ID, Name: deck.Name, CardCount: len(cards)},
		Cards:   deref(cards),
	}, nil
}

// Card returns one card of a deck. A card of another deck is not found.
func (s *CardService) Card(ctx context.Context, deckID, cardID string) (*CardResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.rt.findDeck(ctx, deckID); err != nil {
		return nil, err
	}
	card, err := s.rt.findCard(ctx, cardID, deckID)
	if err != nil {
		return nil, err
	}
	return &CardResult{Message: "Card loaded successfully", Card: *card}, nil
}

// NewCard creates an easy card at the end of the deck.
func (s *CardService) NewCard(ctx context.Context, req NewCardRequest, opts ...MutationOption) (*CardResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	o := applyOptions(opts)
	deck, err := s.rt.findOwnedDeck(ctx, req.DeckID, o.actorID)
	if err != nil {
		return nil, err
	}

	cardID, err := id.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate card ID: %w", err)
	}

	now := s.rt.now()
	card := &domain.Card{
		Record:     domain.Record{ID: cardID},
		FrontText:  strings.TrimSpace(req.FrontText),
		BackText:   strings.TrimSpace(req.BackText),
		Difficulty: domain.DifficultyEasy,
		DeckID:     deck.ID,
	}
	card.InitTimestamps(now)

	if err := s.rt.store.Cards.Insert(ctx, card); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	deck.AddCard(cardID)
	deck.Touch(now)
	if err := s.rt.store.Decks.Update(ctx, deck); err != nil {
		return nil, fmt.Errorf("attach card to deck: %w", err)
	}
	s.rt.syncIndex(ctx, deck)

	s.rt.logger.Info("card created", "card_id", cardID, "deck_id", deck.ID)

	return &CardResult{Message: "Card successfully created", Card: *card}, nil
}

// ModifyCard replaces a card's texts and bumps its deck.
func (s *CardService) ModifyCard(ctx context.Context, req ModifyCardRequest, opts ...MutationOption) (*CardResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	o := applyOptions(opts)
	card, deck, err := s.rt.findOwnedCard(ctx, req.ID, o)
	if err != nil {
		return nil, err
	}

	now := s.rt.now()
	card.FrontText = strings.TrimSpace(req.FrontText)
	card.BackText = strings.TrimSpace(req.BackText)
	card.Touch(now)
	if err := s.rt.store.Cards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}

	if deck != nil {
		deck.Touch(now)
		if err := s.rt.store.Decks.Update(ctx, deck); err != nil {
			return nil, fmt.Errorf("bump deck: %w", err)
		}
		s.rt.syncIndex(ctx, deck)
	}

	s.rt.logger.Info("card modified", "card_id", card.ID, "deck_id", card.DeckID)

	return &CardResult{Message: "Card successfully modified", Card: *card}, nil
}

// DeleteCard removes a card and its reference in the deck.
func (s *CardService) DeleteCard(ctx context.Context, cardID string, opts ...MutationOption) (*MessageResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	o := applyOptions(opts)
	card, deck, err := s.rt.findOwnedCard(ctx, cardID, o)
	if err != nil {
		return nil, err
	}

	if err := s.rt.store.Cards.RemoveByID(ctx, card.ID); err != nil {
		return nil, fmt.Errorf("delete card: %w", err)
	}

	if deck != nil {
		deck.RemoveCard(card.ID)
		deck.Touch(s.rt.now())
		if err := s.rt.store.Decks.Update(ctx, deck); err != nil {
			return nil, fmt.Errorf("detach card from deck: %w", err)
		}
		s.rt.syncIndex(ctx, deck)
	}

	s.rt.logger.Info("card deleted", "card_id", card.ID, "deck_id", card.DeckID)

	return &MessageResult{Message: "Card successfully deleted"}, nil
}

// findCard returns the card, or "Card not found" when it is missing or
// deckID is set and the card belongs elsewhere.
func (rt *Runtime) findCard(ctx context.Context, cardID, deckID string) (*domain.Card, error) {
	card, err := rt.store.Cards.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("Card not found")
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	if deckID != "" && card.DeckID != deckID {
		return nil, domainerrors.NotFound("Card not found")
	}
	return card, nil
}

// findOwnedCard loads a card and its parent deck, enforcing the options.
// The deck is nil when the card's parent no longer exists.
func (rt *Runtime) findOwnedCard(ctx context.Context, cardID string, o mutationOptions) (*domain.Card, *domain.Deck, error) {
	card, err := rt.findCard(ctx, cardID, o.deckID)
	if err != nil {
		return nil, nil, err
	}

	deck, err := rt.store.Decks.FindByID(ctx, card.DeckID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("get deck: %w", err)
	}
	if deck != nil && o.actorID != "" && deck.OwnerID != "" && deck.OwnerID != o.actorID {
		return nil, nil, domainerrors.Forbidden("You do not own this deck")
	}
	return card, deck, nil
}

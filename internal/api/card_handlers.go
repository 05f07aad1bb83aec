package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flashlyapp/flashly-server/internal/service"
)

func (s *Server) registerCardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCards",
		Method:      http.MethodGet,
		Path:        "/api/decks/{deckId}/cards",
		Summary:     "List cards",
		Description: "Returns the cards of a deck with a short deck header",
		Tags:        []string{"Cards"},
	}, s.handleListCards)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCard",
		Method:      http.MethodGet,
		Path:        "/api/decks/{deckId}/cards/{cardId}",
		Summary:     "Get card",
		Tags:        []string{"Cards"},
	}, s.handleGetCard)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCard",
		Method:        http.MethodPost,
		Path:          "/api/decks/{deckId}/cards",
		Summary:       "Create card",
		Description:   "Appends a card to a deck owned by the caller",
		Tags:          []string{"Cards"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "modifyCard",
		Method:      http.MethodPut,
		Path:        "/api/decks/{deckId}/cards/{cardId}",
		Summary:     "Modify card",
		Tags:        []string{"Cards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleModifyCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCard",
		Method:      http.MethodDelete,
		Path:        "/api/decks/{deckId}/cards/{cardId}",
		Summary:     "Delete card",
		Tags:        []string{"Cards"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCard)
}

// === DTOs ===

// CardsOutput wraps a card listing for Huma.
type CardsOutput struct {
	Body service.CardsResult
}

// CardIDInput identifies a card by path.
type CardIDInput struct {
	DeckID string `path:"deckId" doc:"Deck ID"`
	CardID string `path:"cardId" doc:"Card ID"`
}

// CardOutput wraps a single card for Huma.
type CardOutput struct {
	Body service.CardResult
}

// CardRequest is the request body for creating or modifying a card.
type CardRequest struct {
	FrontText string `json:"frontText,omitempty" maxLength:"2000" doc:"Question side"`
	BackText  string `json:"backText,omitempty" maxLength:"2000" doc:"Answer side"`
}

// CreateCardInput wraps the create card request for Huma.
type CreateCardInput struct {
	Authorization string `header:"Authorization"`
	DeckID        string `path:"deckId" doc:"Deck ID"`
	Body          CardRequest
}

// ModifyCardInput wraps the modify card request for Huma.
type ModifyCardInput struct {
	Authorization string `header:"Authorization"`
	DeckID        string `path:"deckId" doc:"Deck ID"`
	CardID        string `path:"cardId" doc:"Card ID"`
	Body          CardRequest
}

// DeleteCardInput identifies the card to delete.
type DeleteCardInput struct {
	Authorization string `header:"Authorization"`
	DeckID        string `path:"deckId" doc:"Deck ID"`
	CardID        string `path:"cardId" doc:"Card ID"`
}

// === Handlers ===

func (s *Server) handleListCards(ctx context.Context, input *DeckIDInput) (*CardsOutput, error) {
	result, err := s.services.Cards.Cards(ctx, input.DeckID)
	if err != nil {
		return nil, err
	}
	return &CardsOutput{Body: *result}, nil
}

func (s *Server) handleGetCard(ctx context.Context, input *CardIDInput) (*CardOutput, error) {
	result, err := s.services.Cards.Card(ctx, input.DeckID, input.CardID)
	if err != nil {
		return nil, err
	}
	return &CardOutput{Body: *result}, nil
}

func (s *Server) handleCreateCard(ctx context.Context, input *CreateCardInput) (*CardOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Cards.NewCard(ctx, service.NewCardRequest{
		DeckID:    input.DeckID,
		FrontText: input.Body.FrontText,
		BackText:  input.Body.BackText,
	}, service.AsUser(userID))
	if err != nil {
		return nil, err
	}
	return &CardOutput{Body: *result}, nil
}

func (s *Server) handleModifyCard(ctx context.Context, input *ModifyCardInput) (*CardOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Cards.ModifyCard(ctx, service.ModifyCardRequest{
		ID:        input.CardID,
		FrontText: input.Body.FrontText,
		BackText:  input.Body.BackText,
	}, service.AsUser(userID), service.InDeck(input.DeckID))
	if err != nil {
		return nil, err
	}
	return &CardOutput{Body: *result}, nil
}

func (s *Server) handleDeleteCard(ctx context.Context, input *DeleteCardInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Cards.DeleteCard(ctx, input.CardID, service.AsUser(userID), service.InDeck(input.DeckID))
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: *result}, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flashlyapp/flashly-server/internal/service"
)

func (s *Server) registerDeckRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exploreDecks",
		Method:      http.MethodGet,
		Path:        "/api/decks/explore",
		Summary:     "Explore decks",
		Description: "Lists public decks, or searches them when q is given",
		Tags:        []string{"Decks"},
	}, s.handleExplore)

	huma.Register(s.api, huma.Operation{
		OperationID: "feedDecks",
		Method:      http.MethodGet,
		Path:        "/api/decks/feed",
		Summary:     "Feed",
		Description: "Public decks of followed users, newest first",
		Tags:        []string{"Decks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyDecks",
		Method:      http.MethodGet,
		Path:        "/api/decks",
		Summary:     "My decks",
		Description: "The caller's own decks, newest first",
		Tags:        []string{"Decks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMyDecks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDeck",
		Method:      http.MethodGet,
		Path:        "/api/decks/{deckId}",
		Summary:     "Get deck",
		Description: "Returns a deck with its categories and cards",
		Tags:        []string{"Decks"},
	}, s.handleGetDeck)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createDeck",
		Method:        http.MethodPost,
		Path:          "/api/decks",
		Summary:       "Create deck",
		Description:   "Creates a private, empty deck owned by the caller",
		Tags:          []string{"Decks"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateDeck)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDeck",
		Method:      http.MethodPut,
		Path:        "/api/decks/{deckId}",
		Summary:     "Update deck",
		Description: "Partially updates a deck owned by the caller",
		Tags:        []string{"Decks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateDeck)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteDeck",
		Method:      http.MethodDelete,
		Path:        "/api/decks/{deckId}",
		Summary:     "Delete deck",
		Description: "Deletes a deck owned by the caller together with its cards",
		Tags:        []string{"Decks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteDeck)
}

// === DTOs ===

// ExploreInput contains the optional search query.
type ExploreInput struct {
	Query string `query:"q" maxLength:"200" doc:"Full-text query over public decks"`
}

// DecksOutput wraps a deck listing for Huma.
type DecksOutput struct {
	Body service.DecksResult
}

// DeckIDInput identifies a deck by path.
type DeckIDInput struct {
	DeckID string `path:"deckId" doc:"Deck ID"`
}

// DeckOutput wraps a single deck for Huma.
type DeckOutput struct {
	Body service.DeckResult
}

// CreateDeckRequest is the request body for a new deck.
type CreateDeckRequest struct {
	Name        string `json:"name,omitempty" maxLength:"200" doc:"Deck name"`
	Description string `json:"description,omitempty" maxLength:"2000" doc:"Deck description"`
}

// CreateDeckInput wraps the create deck request for Huma.
type CreateDeckInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateDeckRequest
}

// UpdateDeckRequest is the request body for a deck update. Absent fields are kept.
type UpdateDeckRequest struct {
	Name          *string  `json:"name,omitempty" maxLength:"200" doc:"Deck name"`
	Description   *string  `json:"description,omitempty" maxLength:"2000" doc:"Deck description"`
	PublishStatus *string  `json:"publishStatus,omitempty" doc:"private or public"`
	CategoryIDs   []string `json:"categoryIds,omitempty" doc:"Category IDs; unknown IDs are dropped"`
}

// UpdateDeckInput wraps the update deck request for Huma.
type UpdateDeckInput struct {
	Authorization string `header:"Authorization"`
	DeckID        string `path:"deckId" doc:"Deck ID"`
	Body          UpdateDeckRequest
}

// DeleteDeckInput identifies the deck to delete.
type DeleteDeckInput struct {
	Authorization string `header:"Authorization"`
	DeckID        string `path:"deckId" doc:"Deck ID"`
}

// === Handlers ===

func (s *Server) handleExplore(ctx context.Context, input *ExploreInput) (*DecksOutput, error) {
	var (
		result *service.DecksResult
		err    error
	)
	if input.Query != "" {
		result, err = s.services.Decks.SearchDecks(ctx, input.Query)
	} else {
		result, err = s.services.Decks.Explore(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &DecksOutput{Body: *result}, nil
}

func (s *Server) handleFeed(ctx context.Context, input *BearerInput) (*DecksOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Decks.Feed(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DecksOutput{Body: *result}, nil
}

func (s *Server) handleMyDecks(ctx context.Context, input *BearerInput) (*DecksOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Decks.Decks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DecksOutput{Body: *result}, nil
}

func (s *Server) handleGetDeck(ctx context.Context, input *DeckIDInput) (*DeckOutput, error) {
	result, err := s.services.Decks.Deck(ctx, input.DeckID)
	if err != nil {
		return nil, err
	}
	return &DeckOutput{Body: *result}, nil
}

func (s *Server) handleCreateDeck(ctx context.Context, input *CreateDeckInput) (*DeckOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Decks.NewDeck(ctx, service.NewDeckRequest{
		OwnerID:     userID,
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}
	return &DeckOutput{Body: *result}, nil
}

func (s *Server) handleUpdateDeck(ctx context.Context, input *UpdateDeckInput) (*DeckOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.UpdateDeckRequest{
		ID:            input.DeckID,
		Name:          input.Body.Name,
		Description:   input.Body.Description,
		PublishStatus: input.Body.PublishStatus,
	}
	if input.Body.CategoryIDs != nil {
		req.CategoryIDs = &input.Body.CategoryIDs
	}

	result, err := s.services.Decks.UpdateDeck(ctx, req, service.AsUser(userID))
	if err != nil {
		return nil, err
	}
	return &DeckOutput{Body: *result}, nil
}

func (s *Server) handleDeleteDeck(ctx context.Context, input *DeleteDeckInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Decks.DeleteDeck(ctx, input.DeckID, service.AsUser(userID))
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: *result}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/flashlyapp/flashly-server/internal/domain"
	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
	"github.com/flashlyapp/flashly-server/internal/id"
	"github.com/flashlyapp/flashly-server/internal/search"
	"github.com/flashlyapp/flashly-server/internal/store"
)

// searchLimit caps the decks returned by SearchDecks.
const searchLimit = 50

// DeckService lists, creates, updates and deletes decks.
type DeckService struct {
	rt *Runtime
}

// NewDeckService creates a new deck service.
func NewDeckService(rt *Runtime) *DeckService {
	return &DeckService{rt: rt}
}

// NewDeckRequest creates a deck. OwnerID is optional.
type NewDeckRequest struct {
	OwnerID     string `json:"ownerId,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateDeckRequest changes a deck. Nil fields are left untouched.
type UpdateDeckRequest struct {
	ID            string    `json:"id"`
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	PublishStatus *string   `json:"publishStatus,omitempty"`
	CategoryIDs   *[]string `json:"categoryIds,omitempty"`
}

// Explore returns every public deck in store order.
func (s *DeckService) Explore(ctx context.Context) (*DecksResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	decks, err := s.rt.store.Decks.Filter(ctx, (*domain.Deck).IsPublic)
	if err != nil {
		return nil, fmt.Errorf("list public decks: %w", err)
	}
	views, err := s.rt.deckViews(ctx, decks)
	if err != nil {
		return nil, err
	}

	msg := "Explore loaded successfully"
	if len(views) == 0 {
		msg = "No decks found for the explore page"
	}
	return &DecksResult{Message: msg, Decks: views}, nil
}

// SearchDecks returns public decks matching query, best match first.
// A blank query behaves like Explore.
func (s *DeckService) SearchDecks(ctx context.Context, query string) (*DecksResult, error) {
	if strings.TrimSpace(query) == "" {
		return s.Explore(ctx)
	}

	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	params := search.DefaultSearchParams()
	params.Query = query
	params.Limit = searchLimit

	result, err := s.rt.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search decks: %w", err)
	}

	// The index may lag the store; re-check visibility on the fresh record.
	decks, err := s.rt.store.Decks.FindMany(ctx, result.IDs())
	if err != nil {
		return nil, fmt.Errorf("load matched decks: %w", err)
	}
	decks = slices.DeleteFunc(decks, func(d *domain.Deck) bool { return !d.IsPublic() })

	views, err := s.rt.deckViews(ctx, decks)
	if err != nil {
		return nil, err
	}

	msg := "Search results loaded successfully"
	if len(views) == 0 {
		msg = "No decks match your search"
	}
	return &DecksResult{Message: msg, Decks: views}, nil
}

// Feed returns the public decks of the users the token's user follows,
// newest first. The caller's own decks never appear.
func (s *DeckService) Feed(ctx context.Context, token string) (*DecksResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.rt.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	decks, err := s.rt.store.Decks.Filter(ctx, func(d *domain.Deck) bool {
		return d.OwnerID != user.ID &&
			user.IsFollowing(d.OwnerID) &&
			d.PublishStatus != domain.PublishStatusPrivate
	})
	if err != nil {
		return nil, fmt.Errorf("list feed decks: %w", err)
	}
	views, err := s.rt.deckViews(ctx, decks)
	if err != nil {
		return nil, err
	}
	sortByUpdatedDesc(views)

	msg := "Feed loaded successfully"
	if len(views) == 0 {
		msg = "No decks found for your feed"
	}
	return &DecksResult{Message: msg, Decks: views}, nil
}

// Decks returns the token's user's own decks, newest first.
func (s *DeckService) Decks(ctx context.Context, token string) (*DecksResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.rt.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	decks, err := s.rt.store.Decks.ListByIndex(ctx, store.IndexOwner, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list decks of %s: %w", user.ID, err)
	}
	views, err := s.rt.deckViews(ctx, decks)
	if err != nil {
		return nil, err
	}
	sortByUpdatedDesc(views)

	msg := "Decks loaded successfully"
	if len(views) == 0 {
		msg = "No decks found for your decks"
	}
	return &DecksResult{Message: msg, Decks: views}, nil
}

// Deck returns one hydrated deck.
func (s *DeckService) Deck(ctx context.Context, deckID string) (*DeckResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	deck, err := s.rt.findDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	view, err := s.rt.deckView(ctx, deck)
	if err != nil {
		return nil, err
	}
	return &DeckResult{Message: "Deck loaded successfully", Deck: view}, nil
}

// NewDeck creates a private, empty deck. When OwnerID is set the owner
// must exist and gets the deck appended to its deck list.
func (s *DeckService) NewDeck(ctx context.Context, req NewDeckRequest) (*DeckResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domainerrors.Validation("Deck name is required")
	}

	var owner *domain.User
	if req.OwnerID != "" {
		owner, err = s.rt.store.Users.FindByID(ctx, req.OwnerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFound("User not found")
			}
			return nil, fmt.Errorf("get owner: %w", err)
		}
	}

	deckID, err := id.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate deck ID: %w", err)
	}

	now := s.rt.now()
	deck := &domain.Deck{
		Record:        domain.Record{ID: deckID},
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		PublishStatus: domain.PublishStatusPrivate,
		CategoryIDs:   []string{},
		OwnerID:       req.OwnerID,
		Rating:        0,
		CardIDs:       []string{},
	}
	deck.InitTimestamps(now)

	if err := s.rt.store.Decks.Insert(ctx, deck); err != nil {
		return nil, fmt.Errorf("create deck: %w", err)
	}

	if owner != nil {
		owner.AddDeck(deckID)
		owner.Touch(now)
		if err := s.rt.store.Users.Update(ctx, owner); err != nil {
			return nil, fmt.Errorf("attach deck to owner: %w", err)
		}
	}

	s.rt.logger.Info("deck created", "deck_id", deckID, "owner_id", req.OwnerID)

	view, err := s.rt.deckView(ctx, deck)
	if err != nil {
		return nil, err
	}
	return &DeckResult{Message: "Deck successfully created", Deck: view}, nil
}

// UpdateDeck applies a partial update. Unknown category ids are dropped.
func (s *DeckService) UpdateDeck(ctx context.Context, req UpdateDeckRequest, opts ...MutationOption) (*DeckResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	o := applyOptions(opts)
	deck, err := s.rt.findOwnedDeck(ctx, req.ID, o.actorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domainerrors.Validation("Deck name is required")
		}
		deck.Name = name
	}
	if req.Description != nil {
		deck.Description = strings.TrimSpace(*req.Description)
	}
	if req.PublishStatus != nil {
		status := domain.PublishStatus(*req.PublishStatus)
		if !status.Valid() {
			return nil, domainerrors.Validationf("Publish status must be %q or %q",
				domain.PublishStatusPrivate, domain.PublishStatusPublic)
		}
		deck.PublishStatus = status
	}
	if req.CategoryIDs != nil {
		categories, err := s.rt.store.Categories.FindMany(ctx, *req.CategoryIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve categories: %w", err)
		}
		ids := make([]string, 0, len(categories))
		for _, c := range categories {
			if !slices.Contains(ids, c.ID) {
				ids = append(ids, c.ID)
			}
		}
		deck.CategoryIDs = ids
	}
	deck.Touch(s.rt.now())

	if err := s.rt.store.Decks.Update(ctx, deck); err != nil {
		return nil, fmt.Errorf("update deck: %w", err)
	}
	s.rt.syncIndex(ctx, deck)

	s.rt.logger.Info("deck updated", "deck_id", deck.ID, "publish_status", deck.PublishStatus)

	view, err := s.rt.deckView(ctx, deck)
	if err != nil {
		return nil, err
	}
	return &DeckResult{Message: "Deck successfully updated", Deck: view}, nil
}

// DeleteDeck deletes a deck, its cards, and every user's reference to it.
func (s *DeckService) DeleteDeck(ctx context.Context, deckID string, opts ...MutationOption) (*MessageResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	o := applyOptions(opts)
	deck, err := s.rt.findOwnedDeck(ctx, deckID, o.actorID)
	if err != nil {
		return nil, err
	}

	// Cards listed by the deck, plus any that point at it without being listed.
	cardIDs := slices.Clone(deck.CardIDs)
	strays, err := s.rt.store.Cards.ListByIndex(ctx, store.IndexDeck, deckID)
	if err != nil {
		return nil, fmt.Errorf("list cards of deck: %w", err)
	}
	for _, c := range strays {
		if !slices.Contains(cardIDs, c.ID) {
			cardIDs = append(cardIDs, c.ID)
		}
	}
	for _, cardID := range cardIDs {
		if err := s.rt.store.Cards.RemoveByID(ctx, cardID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("delete card %s: %w", cardID, err)
		}
	}

	users, err := s.rt.store.Users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	now := s.rt.now()
	for _, u := range users {
		if u.RemoveDeck(deckID) {
			u.Touch(now)
			if err := s.rt.store.Users.Update(ctx, u); err != nil {
				return nil, fmt.Errorf("detach deck from user %s: %w", u.ID, err)
			}
		}
	}

	if err := s.rt.store.Decks.RemoveByID(ctx, deckID); err != nil {
		return nil, fmt.Errorf("delete deck: %w", err)
	}
	s.rt.unindex(ctx, deckID)

	s.rt.logger.Info("deck deleted", "deck_id", deckID, "cards", len(cardIDs))

	return &MessageResult{Message: "Deck successfully deleted"}, nil
}

// Reindex rebuilds the search index from every public deck and returns
// how many were indexed.
func (s *DeckService) Reindex(ctx context.Context) (int, error) {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	decks, err := s.rt.store.Decks.Filter(ctx, (*domain.Deck).IsPublic)
	if err != nil {
		return 0, fmt.Errorf("list public decks: %w", err)
	}
	views, err := s.rt.deckViews(ctx, decks)
	if err != nil {
		return 0, err
	}

	ptrs := make([]*domain.DeckView, len(views))
	for i := range views {
		ptrs[i] = &views[i]
	}
	if err := s.rt.index.IndexDecks(ctx, ptrs); err != nil {
		return 0, fmt.Errorf("index decks: %w", err)
	}
	return len(ptrs), nil
}

// findDeck returns the deck or a "Deck not found" error.
func (rt *Runtime) findDeck(ctx context.Context, deckID string) (*domain.Deck, error) {
	deck, err := rt.store.Decks.FindByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("Deck not found")
		}
		return nil, fmt.Errorf("get deck: %w", err)
	}
	return deck, nil
}

// findOwnedDeck is findDeck plus an ownership check when actorID is set.
// Unowned decks may be changed by anyone.
func (rt *Runtime) findOwnedDeck(ctx context.Context, deckID, actorID string) (*domain.Deck, error) {
	deck, err := rt.findDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if actorID != "" && deck.OwnerID != "" && deck.OwnerID != actorID {
		return nil, domainerrors.Forbidden("You do not own this deck")
	}
	return deck, nil
}

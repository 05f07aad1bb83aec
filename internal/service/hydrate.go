package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/flashlyapp/flashly-server/internal/domain"
	"github.com/flashlyapp/flashly-server/internal/store"
)

// Hydration resolves id references into objects. It is best-effort:
// references to missing records are dropped, never reported.

func (rt *Runtime) deckView(ctx context.Context, deck *domain.Deck) (domain.DeckView, error) {
	categories, err := rt.store.Categories.FindMany(ctx, deck.CategoryIDs)
	if err != nil {
		return domain.DeckView{}, fmt.Errorf("resolve categories of deck %s: %w", deck.ID, err)
	}
	cards, err := rt.store.Cards.FindMany(ctx, deck.CardIDs)
	if err != nil {
		return domain.DeckView{}, fmt.Errorf("resolve cards of deck %s: %w", deck.ID, err)
	}

	return domain.DeckView{
		ID:            deck.ID,
		Name:          deck.Name,
		Description:   deck.Description,
		PublishStatus: deck.PublishStatus,
		Categories:    deref(categories),
		OwnerID:       deck.OwnerID,
		Rating:        deck.Rating,
		Cards:         deref(cards),
		CreatedAt:     deck.CreatedAt,
		UpdatedAt:     deck.UpdatedAt,
	}, nil
}

func (rt *Runtime) deckViews(ctx context.Context, decks []*domain.Deck) ([]domain.DeckView, error) {
	views := make([]domain.DeckView, 0, len(decks))
	for _, deck := range decks {
		view, err := rt.deckView(ctx, deck)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// sortByUpdatedDesc orders decks newest first. Ties keep store order.
func sortByUpdatedDesc(views []domain.DeckView) {
	slices.SortStableFunc(views, func(a, b domain.DeckView) int {
		return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano())
	})
}

func (rt *Runtime) userSummaries(ctx context.Context, ids []string) ([]domain.UserSummary, error) {
	users, err := rt.store.Users.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	out := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// profile builds the top-level user view. Nested users are summaries, so
// the graph stops one level down.
func (rt *Runtime) profile(ctx context.Context, user *domain.User, details *domain.UserDetails) (*domain.UserProfile, error) {
	if details == nil {
		var err error
		details, err = rt.store.UserDetails.FindByID(ctx, user.DetailsID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("get details of user %s: %w", user.ID, err)
		}
		if details == nil {
			// Placeholder for users whose details record is gone.
			details = &domain.UserDetails{
				Record: domain.Record{ID: user.DetailsID, CreatedAt: user.CreatedAt, UpdatedAt: user.UpdatedAt},
				UserID: user.ID,
			}
		}
	}

	following, err := rt.userSummaries(ctx, user.FollowingIDs)
	if err != nil {
		return nil, err
	}
	followers, err := rt.userSummaries(ctx, user.FollowerIDs)
	if err != nil {
		return nil, err
	}
	decks, err := rt.store.Decks.FindMany(ctx, user.DeckIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve decks of user %s: %w", user.ID, err)
	}
	deckViews, err := rt.deckViews(ctx, decks)
	if err != nil {
		return nil, err
	}

	return &domain.UserProfile{
		UserSummary: user.Summary(),
		Details:     *details,
		Following:   following,
		Followers:   followers,
		Decks:       deckViews,
	}, nil
}

func deref[T any](ptrs []*T) []T {
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out
}

// Package store is the fixture store: typed, normalized record collections
// over a pluggable Backend. It enforces no business rules.
package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/flashlyapp/flashly-server/internal/domain"
)

// Collection names as they appear in backends.
const (
	CollectionUsers       = "users"
	CollectionUserDetails = "user_details"
	CollectionDecks       = "decks"
	CollectionCards       = "cards"
	CollectionCategories  = "categories"
	CollectionFollowers   = "followers"
)

// Index names.
const (
	IndexEmail     = "email"
	IndexUser      = "user"
	IndexOwner     = "owner"
	IndexDeck      = "deck"
	IndexPair      = "pair"
	IndexFollower  = "follower"
	IndexFollowing = "following"
)

// Store holds the six fixture collections.
type Store struct {
	backend Backend
	logger  *slog.Logger

	Users       *Collection[domain.User]
	UserDetails *Collection[domain.UserDetails]
	Decks       *Collection[domain.Deck]
	Cards       *Collection[domain.Card]
	Categories  *Collection[domain.Category]
	Followers   *Collection[domain.Follow]
}

// New creates a store over backend.
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{
		backend: backend,
		logger:  logger,

		Users: NewCollection(backend, CollectionUsers, (*domain.User).GetID).
			WithIndexTransform(IndexEmail, func(u *domain.User) []string {
				return []string{NormalizeEmail(u.Email)}
			}, NormalizeEmail),

		UserDetails: NewCollection(backend, CollectionUserDetails, (*domain.UserDetails).GetID).
			WithIndex(IndexUser, func(d *domain.UserDetails) []string {
				return []string{d.UserID}
			}),

		Decks: NewCollection(backend, CollectionDecks, (*domain.Deck).GetID).
			WithIndex(IndexOwner, func(d *domain.Deck) []string {
				return []string{d.OwnerID}
			}),

		Cards: NewCollection(backend, CollectionCards, (*domain.Card).GetID).
			WithIndex(IndexDeck, func(c *domain.Card) []string {
				return []string{c.DeckID}
			}),

		Categories: NewCollection(backend, CollectionCategories, (*domain.Category).GetID),

		Followers: NewCollection(backend, CollectionFollowers, (*domain.Follow).GetID).
			WithIndex(IndexPair, func(f *domain.Follow) []string {
				return []string{FollowKey(f.FollowerID, f.FollowingID)}
			}).
			WithIndex(IndexFollower, func(f *domain.Follow) []string {
				return []string{f.FollowerID}
			}).
			WithIndex(IndexFollowing, func(f *domain.Follow) []string {
				return []string{f.FollowingID}
			}),
	}
}

// NewMemory creates an empty store backed by process memory.
func NewMemory() *Store {
	return New(NewMemoryBackend(), nil)
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close releases the backend.
func (s *Store) Close() error {
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("close %s backend: %w", s.backend.Name(), err)
	}
	return nil
}

// IsEmpty reports whether the store holds no users and no decks.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	users, err := s.Users.Count(ctx)
	if err != nil {
		return false, err
	}
	decks, err := s.Decks.Count(ctx)
	if err != nil {
		return false, err
	}
	return users == 0 && decks == 0, nil
}

// NormalizeEmail is the form emails are compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FollowKey is the pair index key of a follow row.
func FollowKey(followerID, followingID string) string {
	return followerID + ":" + followingID
}

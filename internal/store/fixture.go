package store

import (
	"context"
	"fmt"
	"time"

	"github.com/flashlyapp/flashly-server/internal/domain"
)

// PasswordHasher hashes fixture passwords before they are stored.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Seed fixture ids, referenced by tests and the seed command.
const (
	SeedUserNicholas = "agew2153"
	SeedUserJohn     = "bvwr4021"
	SeedDeckTest     = "bsd3s2s"
	SeedDeckMath     = "agfa0921"
	SeedDeckFrench   = "dech5321"
	SeedCardOnePlus  = "red123"
	SeedCardSixPlus  = "agt520"
	SeedCategoryMath = "edf342"
)

type seedUser struct {
	user     domain.User
	password string
}

// fixture returns fresh copies of the seed records. Timestamps are fixed so
// ordering by updatedAt is deterministic.
func fixture() (users []seedUser, details []domain.UserDetails, follows []domain.Follow,
	decks []domain.Deck, cards []domain.Card, categories []domain.Category) {
	rec := func(id string, ms int64) domain.Record {
		t := time.UnixMilli(ms).UTC()
		return domain.Record{ID: id, CreatedAt: t, UpdatedAt: t}
	}

	users = []seedUser{
		{
			user: domain.User{
				Record:       rec(SeedUserNicholas, 100000),
				FirstName:    "Nicholas",
				LastName:     "Chumney",
				Username:     "NicholasC",
				Email:        "nicholas.chumney@outlook.com",
				DetailsID:    "safv4567",
				FollowingIDs: []string{},
				FollowerIDs:  []string{SeedUserJohn},
				DeckIDs:      []string{SeedDeckTest, SeedDeckMath, SeedDeckFrench},
			},
			password: "test123",
		},
		{
			user: domain.User{
				Record:       rec(SeedUserJohn, 145600),
				FirstName:    "John",
				LastName:     "Doe",
				Username:     "JohnD",
				Email:        "johndoe@gmail.com",
				DetailsID:    "resf6578",
				FollowingIDs: []string{SeedUserNicholas},
				FollowerIDs:  []string{},
				DeckIDs:      []string{},
			},
			password: "jd2025",
		},
	}

	details = []domain.UserDetails{
		{Record: rec("safv4567", 100000), UserID: SeedUserNicholas, AboutMe: "I am Nicholas!"},
		{Record: rec("resf6578", 145600), UserID: SeedUserJohn, AboutMe: ""},
	}

	follows = []domain.Follow{
		{Record: rec("ffag2431", 145600), FollowerID: SeedUserJohn, FollowingID: SeedUserNicholas},
	}

	decks = []domain.Deck{
		{
			Record:        rec(SeedDeckTest, 100005),
			Name:          "Test Deck",
			Description:   "A deck in progress",
			PublishStatus: domain.PublishStatusPrivate,
			CategoryIDs:   []string{},
			OwnerID:       SeedUserNicholas,
			CardIDs:       []string{},
		},
		{
			Record:        rec(SeedDeckMath, 100005),
			Name:          "Math Basics",
			Description:   "A deck for basic math problems",
			PublishStatus: domain.PublishStatusPublic,
			CategoryIDs:   []string{SeedCategoryMath},
			OwnerID:       SeedUserNicholas,
			Rating:        4.8,
			CardIDs:       []string{SeedCardOnePlus, SeedCardSixPlus},
		},
		{
			Record:        rec(SeedDeckFrench, 100005),
			Name:          "Français débutant",
			Description:   "",
			PublishStatus: domain.PublishStatusPublic,
			CategoryIDs:   []string{},
			OwnerID:       SeedUserNicholas,
			CardIDs:       []string{},
		},
	}

	cards = []domain.Card{
		{
			Record:     rec(SeedCardOnePlus, 100005),
			FrontText:  "1 + 1",
			BackText:   "2",
			Difficulty: domain.DifficultyEasy,
			DeckID:     SeedDeckMath,
		},
		{
			Record:     rec(SeedCardSixPlus, 100005),
			FrontText:  "6 + 8",
			BackText:   "14",
			Difficulty: domain.DifficultyEasy,
			DeckID:     SeedDeckMath,
		},
	}

	categories = []domain.Category{
		{Record: rec(SeedCategoryMath, 100000), Name: "Math"},
	}

	return users, details, follows, decks, cards, categories
}

// Seed inserts the fixture records. Passwords are hashed with hasher.
func Seed(ctx context.Context, s *Store, hasher PasswordHasher) error {
	users, details, follows, decks, cards, categories := fixture()

	for i := range users {
		hash, err := hasher.Hash(users[i].password)
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", users[i].user.ID, err)
		}
		users[i].user.PasswordHash = hash
		if err := s.Users.Insert(ctx, &users[i].user); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}
	for i := range details {
		if err := s.UserDetails.Insert(ctx, &details[i]); err != nil {
			return fmt.Errorf("seed user details: %w", err)
		}
	}
	for i := range follows {
		if err := s.Followers.Insert(ctx, &follows[i]); err != nil {
			return fmt.Errorf("seed follower: %w", err)
		}
	}
	for i := range categories {
		if err := s.Categories.Insert(ctx, &categories[i]); err != nil {
			return fmt.Errorf("seed category: %w", err)
		}
	}
	for i := range decks {
		if err := s.Decks.Insert(ctx, &decks[i]); err != nil {
			return fmt.Errorf("seed deck: %w", err)
		}
	}
	for i := range cards {
		if err := s.Cards.Insert(ctx, &cards[i]); err != nil {
			return fmt.Errorf("seed card: %w", err)
		}
	}

	s.logger.Info("seeded fixture store",
		"backend", s.backend.Name(),
		"users", len(users),
		"decks", len(decks),
		"cards", len(cards),
	)
	return nil
}

// SeedIfEmpty seeds only a store that holds no users and no decks.
// It reports whether seeding happened.
func SeedIfEmpty(ctx context.Context, s *Store, hasher PasswordHasher) (bool, error) {
	empty, err := s.IsEmpty(ctx)
	if err != nil {
		return false, fmt.Errorf("check store: %w", err)
	}
	if !empty {
		return false, nil
	}
	if err := Seed(ctx, s, hasher); err != nil {
		return false, err
	}
	return true, nil
}

package domain

import "time"

// UserSummary is how a user appears nested inside another response.
// It deliberately has no relation fields, so views never recurse.
type UserSummary struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserProfile is the fully hydrated top-level user.
type UserProfile struct {
	UserSummary
	Details   UserDetails   `json:"details"`
	Following []UserSummary `json:"following"`
	Followers []UserSummary `json:"followers"`
	Decks     []DeckView    `json:"decks"`
}

// Statistics counts a profile's relations.
func (p *UserProfile) Statistics() ProfileStatistics {
	return ProfileStatistics{
		FollowingCount: len(p.Following),
		FollowersCount: len(p.Followers),
		DecksCount:     len(p.Decks),
	}
}

// ProfileStatistics are the aggregate counts returned with a profile.
type ProfileStatistics struct {
	FollowingCount int `json:"followingCount"`
	FollowersCount int `json:"followersCount"`
	DecksCount     int `json:"decksCount"`
}

// DeckView is a deck with its categories and cards resolved.
type DeckView struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	PublishStatus PublishStatus `json:"publishStatus"`
	Categories    []Category    `json:"categories"`
	OwnerID       string        `json:"ownerId"`
	Rating        float64       `json:"rating"`
	Cards         []Card        `json:"cards"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// DeckInfo is the short deck header returned with card listings.
type DeckInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"cardCount"`
}

// AuthUser is the simplified user returned by register and login.
type AuthUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// AuthUserFrom builds the register/login projection.
func AuthUserFrom(u *User) AuthUser {
	return AuthUser{
		ID:        u.ID,
		Name:      u.DisplayName(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
	}
}

package domain

import (
	"slices"
	"strings"
)

// User is a registered account. Relations are stored as id lists and
// resolved into views by the service layer.
type User struct {
	Record
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"passwordHash,omitempty"` // never part of a view
	DetailsID    string   `json:"detailsId"`
	FollowingIDs []string `json:"followingIds"`
	FollowerIDs  []string `json:"followerIds"`
	DeckIDs      []string `json:"deckIds"`
}

// DisplayName is the short form shown by the client, e.g. "Nicholas C.".
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	initial, _ := firstRune(u.LastName)
	return u.FirstName + " " + initial + "."
}

// DefaultUsername derives a username from the names, e.g. "NicholasC".
func DefaultUsername(firstName, lastName string) string {
	initial, _ := firstRune(strings.TrimSpace(lastName))
	return strings.ReplaceAll(strings.TrimSpace(firstName), " ", "") + initial
}

// IsFollowing reports whether u follows userID.
func (u *User) IsFollowing(userID string) bool {
	return slices.Contains(u.FollowingIDs, userID)
}

// HasFollower reports whether userID follows u.
func (u *User) HasFollower(userID string) bool {
	return slices.Contains(u.FollowerIDs, userID)
}

// Follow records that u follows userID.
func (u *User) Follow(userID string) {
	u.FollowingIDs = appendID(u.FollowingIDs, userID)
}

// Unfollow removes userID from u's following list.
func (u *User) Unfollow(userID string) bool {
	var ok bool
	u.FollowingIDs, ok = removeID(u.FollowingIDs, userID)
	return ok
}

// AddFollower records that userID follows u.
func (u *User) AddFollower(userID string) {
	u.FollowerIDs = appendID(u.FollowerIDs, userID)
}

// RemoveFollower removes userID from u's followers.
func (u *User) RemoveFollower(userID string) bool {
	var ok bool
	u.FollowerIDs, ok = removeID(u.FollowerIDs, userID)
	return ok
}

// AddDeck appends deckID to the owned decks.
func (u *User) AddDeck(deckID string) {
	u.DeckIDs = appendID(u.DeckIDs, deckID)
}

// RemoveDeck drops deckID from the owned decks.
func (u *User) RemoveDeck(deckID string) bool {
	var ok bool
	u.DeckIDs, ok = removeID(u.DeckIDs, deckID)
	return ok
}

// Summary projects the user without any relation fields.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserDetails holds the free-form profile text of exactly one user.
type UserDetails struct {
	Record
	UserID  string `json:"userId"`
	AboutMe string `json:"aboutMe"`
}

// Follow is one row of the followers collection.
type Follow struct {
	Record
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
}

func firstRune(s string) (string, bool) {
	for _, r := range s {
		return string(r), true
	}
	return "", false
}

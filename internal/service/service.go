// Package service is the Flashly query/mutation façade. Every operation
// waits out the runtime latency, then runs under one shared lock, so each
// call is atomic with respect to the others.
package service

import "github.com/flashlyapp/flashly-server/internal/validation"

// Services bundles the façade services over one runtime.
type Services struct {
	Auth       *AuthService
	Decks      *DeckService
	Cards      *CardService
	Users      *UserService
	Social     *SocialService
	Categories *CategoryService
}

// New wires every façade service to rt.
func New(rt *Runtime, hasher PasswordHasher, validator *validation.Validator) *Services {
	return &Services{
		Auth:       NewAuthService(rt, hasher, validator),
		Decks:      NewDeckService(rt),
		Cards:      NewCardService(rt),
		Users:      NewUserService(rt, validator),
		Social:     NewSocialService(rt),
		Categories: NewCategoryService(rt),
	}
}

package api

import (
	"strings"

	"github.com/flashlyapp/flashly-server/internal/auth"
	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
)

// TokenCodec turns a user id into a bearer token and back.
type TokenCodec interface {
	Issue(userID, email string) (string, error)
	Resolve(token string) (userID string, err error)
}

// PASETOTokens issues signed, expiring tokens through auth.TokenService.
type PASETOTokens struct {
	tokens *auth.TokenService
}

// NewPASETOTokens wraps a token service.
func NewPASETOTokens(tokens *auth.TokenService) *PASETOTokens {
	return &PASETOTokens{tokens: tokens}
}

// Issue implements TokenCodec.
func (p *PASETOTokens) Issue(userID, email string) (string, error) {
	return p.tokens.GenerateAccessToken(userID, email)
}

// Resolve implements TokenCodec.
func (p *PASETOTokens) Resolve(token string) (string, error) {
	claims, err := p.tokens.VerifyAccessToken(token)
	if err != nil {
		return "", domainerrors.Unauthorized("Invalid token provided").WithCause(err)
	}
	if claims.UserID == "" {
		return "", domainerrors.Unauthorized("Invalid token provided")
	}
	return claims.UserID, nil
}

// PlainTokens uses the raw user id as the bearer token. Development only.
type PlainTokens struct{}

// Issue implements TokenCodec.
func (PlainTokens) Issue(userID, _ string) (string, error) {
	return userID, nil
}

// Resolve implements TokenCodec.
func (PlainTokens) Resolve(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domainerrors.Unauthorized("Invalid token provided")
	}
	return token, nil
}

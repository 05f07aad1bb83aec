package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flashlyapp/flashly-server/internal/store"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{Code: http.StatusNotFound, Message: "not found"}
	assert.Equal(t, "not found", err.Error())

	cause := errors.New("disk full")
	wrapped := &store.Error{Code: http.StatusInternalServerError, Message: "put", Err: cause}
	assert.Equal(t, "put: disk full", wrapped.Error())
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.Equal(t, http.StatusInternalServerError, wrapped.HTTPCode())
}

func TestError_IsMatchesOnCode(t *testing.T) {
	custom := store.ErrNotFound.WithMessage("decks/abc not found")

	assert.ErrorIs(t, custom, store.ErrNotFound)
	assert.ErrorIs(t, fmt.Errorf("load deck: %w", custom), store.ErrNotFound)
	assert.NotErrorIs(t, custom, store.ErrAlreadyExists)
	assert.Equal(t, "decks/abc not found", custom.Message)
	assert.Equal(t, "record not found", store.ErrNotFound.Message)
}

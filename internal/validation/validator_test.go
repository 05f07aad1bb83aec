package validation_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/flashlyapp/flashly-server/internal/errors"
	"github.com/flashlyapp/flashly-server/internal/validation"
)

type testRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
	Status   string `json:"publishStatus" validate:"omitempty,oneof=private public"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{
		Email:    "johndoe@gmail.com",
		Password: "jd2025",
		Status:   "public",
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		req        testRequest
		wantField  string
		wantReason string
	}{
		{
			name:       "missing email",
			req:        testRequest{Password: "secret1"},
			wantField:  "email",
			wantReason: "is required",
		},
		{
			name:       "invalid email",
			req:        testRequest{Email: "not-an-email", Password: "secret1"},
			wantField:  "email",
			wantReason: "must be a valid email address",
		},
		{
			name:       "password too short",
			req:        testRequest{Email: "a@b.co", Password: "short"},
			wantField:  "password",
			wantReason: "must be at least 6 characters",
		},
		{
			name:       "password too long",
			req:        testRequest{Email: "a@b.co", Password: strings.Repeat("x", 1025)},
			wantField:  "password",
			wantReason: "must not exceed 1024 characters",
		},
		{
			name:       "unknown status",
			req:        testRequest{Email: "a@b.co", Password: "secret1", Status: "draft"},
			wantField:  "publishStatus",
			wantReason: "must be one of: private public",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
			assert.Equal(t, tt.wantField+" "+tt.wantReason, domainErr.Message)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantReason, details[tt.wantField])
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{Password: "secret1"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "email")
	assert.NotContains(t, err.Error(), "Email")
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("email", "nicholas.chumney@outlook.com", "email"))

	err := v.Var("email", "nicholas", "email")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Equal(t, "email must be a valid email address", err.Error())
}

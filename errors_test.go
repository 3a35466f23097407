package social_test

import (
	"errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/sharesocial/go-social"
	"github.com/stretchr/testify/assert"
)

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Structured token expired error",
			err:      social.ErrTokenExpired,
			expected: true,
		},
		{
			name:     "Legacy token expired error (string match)",
			err:      errors.New("some wrapper: token is expired"),
			expected: true,
		},
		{
			name:     "Different structured error",
			err:      social.ErrIdentityNotFound,
			expected: false,
		},
		{
			name:     "Different legacy error",
			err:      errors.New("invalid token"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := social.IsTokenExpiredError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "Structured malformed error",
			err:      social.ErrTokenMalformed,
			expected: true,
		},
		{
			name:     "Legacy malformed error (string match)",
			err:      errors.New("token is malformed"),
			expected: true,
		},
		{
			name:     "Legacy missing JWT error (string match)",
			err:      errors.New("missing or malformed JWT"),
			expected: true,
		},
		{
			name:     "Different structured error",
			err:      social.ErrTokenExpired,
			expected: false,
		},
		{
			name:     "Different legacy error",
			err:      errors.New("invalid token"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := social.IsMalformedError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestStructuredErrorProperties(t *testing.T) {
	t.Run("ErrIdentityNotFound", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryNotFound, social.ErrIdentityNotFound.Category)
		assert.Equal(t, "identity not found", social.ErrIdentityNotFound.Message)
	})

	t.Run("ErrMismatchedHashAndPassword", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, social.ErrMismatchedHashAndPassword.Category)
		assert.Equal(t, social.TextCodeInvalidCreds, social.ErrMismatchedHashAndPassword.TextCode)
		assert.Equal(t, "the credentials provided are invalid", social.ErrMismatchedHashAndPassword.Message)
	})

	t.Run("ErrTooManyLoginAttempts", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryRateLimit, social.ErrTooManyLoginAttempts.Category)
		assert.Equal(t, social.TextCodeTooManyAttempts, social.ErrTooManyLoginAttempts.TextCode)
	})

	t.Run("ErrUnableToFindSession", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, social.ErrUnableToFindSession.Category)
		assert.Equal(t, social.TextCodeSessionNotFound, social.ErrUnableToFindSession.TextCode)
	})

	t.Run("ErrNoEmptyString", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryValidation, social.ErrNoEmptyString.Category)
	})
}

func TestDomainErrorProperties(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		code     int
		message  string
	}{
		{"ErrEmailTaken", social.ErrEmailTaken, goerrors.CategoryConflict, http.StatusConflict, "Email already exists"},
		{"ErrHandleTaken", social.ErrHandleTaken, goerrors.CategoryConflict, http.StatusConflict, "That handle already exists"},
		{"ErrProfileNotFound", social.ErrProfileNotFound, goerrors.CategoryNotFound, http.StatusNotFound, "There is no profile for this user"},
		{"ErrPostNotFound", social.ErrPostNotFound, goerrors.CategoryNotFound, http.StatusNotFound, "No post found"},
		{"ErrEntryNotFound", social.ErrEntryNotFound, goerrors.CategoryNotFound, http.StatusNotFound, "Entry not found"},
		{"ErrNotResourceOwner", social.ErrNotResourceOwner, goerrors.CategoryAuthz, http.StatusForbidden, "User unauthorized"},
		{"ErrSelfSubscribe", social.ErrSelfSubscribe, goerrors.CategoryBadInput, http.StatusBadRequest, "Can not subscribe to yourself"},
		{"ErrAlreadySubscribed", social.ErrAlreadySubscribed, goerrors.CategoryConflict, http.StatusConflict, "User already subscribed"},
		{"ErrNotSubscribed", social.ErrNotSubscribed, goerrors.CategoryBadInput, http.StatusBadRequest, "User is not subscribed"},
		{"ErrAlreadyLiked", social.ErrAlreadyLiked, goerrors.CategoryConflict, http.StatusConflict, "User already liked this post"},
		{"ErrNotLiked", social.ErrNotLiked, goerrors.CategoryBadInput, http.StatusBadRequest, "User has not yet liked this post"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Message)
		})
	}
}

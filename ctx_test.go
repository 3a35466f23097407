package social

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &User{ID: uuid.New(), Email: "pepe@example.com"}

	ctx := WithContext(context.Background(), user)

	found, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user.ID, found.ID)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestClaimsContextRoundTrip(t *testing.T) {
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user123",
		},
		UID: "user123",
	}

	ctx := WithClaimsContext(context.Background(), claims)

	got, ok := GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, "user123", got.Subject())
	assert.Equal(t, "user123", got.UserID())

	_, ok = GetClaims(context.Background())
	assert.False(t, ok)

	wrong := context.WithValue(context.Background(), claimsCtxKey, "not-a-claims-object")
	_, ok = GetClaims(wrong)
	assert.False(t, ok)
}

func TestGetRouterClaims(t *testing.T) {
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user123",
		},
		UID: "user123",
	}

	ctx := router.NewMockContext()
	ctx.LocalsMock["user"] = claims

	got, ok := GetRouterClaims(ctx, "")
	require.True(t, ok)
	assert.Equal(t, "user123", got.UserID())

	empty := router.NewMockContext()
	_, ok = GetRouterClaims(empty, "user")
	assert.False(t, ok)
}

func TestGetRouterSession(t *testing.T) {
	uid := uuid.New()

	ctx := router.NewMockContext()
	ctx.LocalsMock["user"] = sessionToken(uid)

	session, err := GetRouterSession(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, uid.String(), session.GetUserID())

	got, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, uid, got)
}

func TestGetRouterSessionErrors(t *testing.T) {
	t.Run("no token in locals", func(t *testing.T) {
		ctx := router.NewMockContext()
		_, err := GetRouterSession(ctx, "user")
		assert.ErrorIs(t, err, ErrUnableToFindSession)
	})

	t.Run("wrong type in locals", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.LocalsMock["user"] = "not-a-token"
		_, err := GetRouterSession(ctx, "user")
		assert.ErrorIs(t, err, ErrUnableToDecodeSession)
	})

	t.Run("claims are not a map", func(t *testing.T) {
		now := time.Now()
		ctx := router.NewMockContext()
		ctx.LocalsMock["user"] = &jwt.Token{
			Claims: &jwt.RegisteredClaims{
				Subject:   "user123",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			Valid: true,
		}
		_, err := GetRouterSession(ctx, "user")
		assert.ErrorIs(t, err, ErrUnableToMapClaims)
	})
}

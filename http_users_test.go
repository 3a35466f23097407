package social

import (
	"context"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubAuther struct {
	token string
	err   error
}

func (s stubAuther) Login(ctx context.Context, identifier, password string) (string, error) {
	return s.token, s.err
}

func (s stubAuther) SessionFromToken(token string) (Session, error) {
	return nil, nil
}

func (s stubAuther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	return nil, nil
}

func newUsersController(repo RepositoryManager, auther Authenticator) *UsersController {
	return NewUsersController(
		WithUsersRepo(repo),
		WithUsersAuther(auther),
		WithUsersConfig(testConfig{signingKey: "test-secret"}),
	)
}

func captureJSON(ctx *router.MockContext, status *int, body *any) {
	ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*status = args.Int(0)
		*body = args.Get(1)
	}).Return(nil)
}

func TestUsersRegisterCreatesAccount(t *testing.T) {
	repo := newStubRepoManager()
	controller := newUsersController(repo, stubAuther{})

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		p := args.Get(0).(*RegisterRequest)
		*p = RegisterRequest{
			Name:     "Pepe Rone",
			Email:    "pepe@example.com",
			Password: "sup3r-secret",
		}
	}).Return(nil)

	var status int
	var body any
	captureJSON(ctx, &status, &body)

	err := controller.Register(ctx)
	require.NoError(t, err)
	require.Equal(t, router.StatusCreated, status)

	env, ok := body.(Envelope)
	require.True(t, ok)
	assert.True(t, env.Success)

	user, ok := env.Data.(*User)
	require.True(t, ok)
	assert.Equal(t, "pepe@example.com", user.Email)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "sup3r-secret", user.PasswordHash)

	require.Len(t, repo.users.created, 1)
}

func TestUsersRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubRepoManager()
	existing := &User{ID: uuid.New(), Email: "pepe@example.com"}
	repo.users.index(existing)

	controller := newUsersController(repo, stubAuther{})

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		p := args.Get(0).(*RegisterRequest)
		*p = RegisterRequest{
			Name:     "Pepe Rone",
			Email:    "pepe@example.com",
			Password: "sup3r-secret",
		}
	}).Return(nil)

	var status int
	var body any
	captureJSON(ctx, &status, &body)

	err := controller.Register(ctx)
	require.NoError(t, err)
	require.Equal(t, router.StatusConflict, status)

	env := body.(Envelope)
	assert.False(t, env.Success)
	assert.Equal(t, "Email already exists", env.Msg)
	assert.Empty(t, repo.users.created)
}

func TestUsersRegisterValidatesPayload(t *testing.T) {
	repo := newStubRepoManager()
	controller := newUsersController(repo, stubAuther{})

	ctx := router.NewMockContext()
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		p := args.Get(0).(*RegisterRequest)
		*p = RegisterRequest{
			Name:  "Pepe Rone",
			Email: "not-an-email",
		}
	}).Return(nil)

	var status int
	var body any
	captureJSON(ctx, &status, &body)

	err := controller.Register(ctx)
	require.NoError(t, err)
	require.Equal(t, router.StatusBadRequest, status)

	env := body.(Envelope)
	assert.False(t, env.Success)
	assert.NotNil(t, env.Data)
	assert.Empty(t, repo.users.created)
}

func TestUsersLoginReturnsBearerToken(t *testing.T) {
	repo := newStubRepoManager()
	user := &User{ID: uuid.New(), Name: "Pepe Rone", Email: "pepe@example.com"}
	repo.users.index(user)

	controller := newUsersController(repo, stubAuther{token: "signed.jwt.token"})

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		p := args.Get(0).(*LoginRequest)
		*p = LoginRequest{
			Email:    "pepe@example.com",
			Password: "sup3r-secret",
		}
	}).Return(nil)

	var status int
	var body any
	captureJSON(ctx, &status, &body)

	err := controller.Login(ctx)
	require.NoError(t, err)
	require.Equal(t, router.StatusOK, status)

	res, ok := body.(LoginResponse)
	require.True(t, ok)
	assert.True(t, res.Success)
	assert.Equal(t, "Bearer signed.jwt.token", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, user.ID, res.User.ID)
}

func TestUsersLoginRejectsBadCredentials(t *testing.T) {
	repo := newStubRepoManager()
	controller := newUsersController(repo, stubAuther{err: ErrMismatchedHashAndPassword})

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		p := args.Get(0).(*LoginRequest)
		*p = LoginRequest{
			Email:    "pepe@example.com",
			Password: "wrong",
		}
	}).Return(nil)

	var status int
	var body any
	captureJSON(ctx, &status, &body)

	err := controller.Login(ctx)
	require.NoError(t, err)
	require.Equal(t, router.StatusUnauthorized, status)

	env := body.(Envelope)
	assert.False(t, env.Success)
}

func TestUsersCurrentReturnsSessionUser(t *testing.T) {
	repo := newStubRepoManager()
	user := &User{ID: uuid.New(), Name: "Pepe Rone", Email: "pepe@example.com"}
	repo.users.index(user)

	controller := newUsersController(repo, stubAuther{})

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.LocalsMock["user"] = sessionToken(user.ID)

	var status int
	var body any
	captureJSON(ctx, &status, &body)

	err := controller.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, router.StatusOK, status)

	env := body.(Envelope)
	assert.True(t, env.Success)

	record, ok := env.Data.(*User)
	require.True(t, ok)
	assert.Equal(t, user.ID, record.ID)
}

func TestUsersCurrentWithoutSession(t *testing.T) {
	repo := newStubRepoManager()
	controller := newUsersController(repo, stubAuther{})

	ctx := router.NewMockContext()

	var status int
	var body any
	captureJSON(ctx, &status, &body)

	err := controller.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, router.StatusUnauthorized, status)

	env := body.(Envelope)
	assert.False(t, env.Success)
}

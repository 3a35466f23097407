package social

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods the controllers use.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// UsersController handles registration, login, and the current user route.
type UsersController struct {
	Logger Logger
	Repo   RepositoryManager
	Auther Authenticator
	Config Config
}

type UsersControllerOption func(*UsersController) *UsersController

func NewUsersController(opts ...UsersControllerOption) *UsersController {
	c := &UsersController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in users controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in users controller...")
	}

	return c
}

func WithUsersRepo(repo RepositoryManager) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Repo = repo
		return c
	}
}

func WithUsersAuther(auther Authenticator) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Auther = auther
		return c
	}
}

func WithUsersConfig(cfg Config) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Config = cfg
		return c
	}
}

func WithUsersLogger(logger Logger) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Logger = logger
		return c
	}
}

// RegisterRoutes mounts the user routes. The protected middleware guards
// the current user route only.
func (c *UsersController) RegisterRoutes(group RouteRegistrar, protected router.MiddlewareFunc) {
	group.Post("/register", c.Register)
	group.Post("/login", c.Login)
	group.Get("/current", c.Current, protected)
}

// RegisterRequest payload
type RegisterRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
			validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
			validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		)
	}, "Invalid registration payload")
}

func (c *UsersController) Register(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("Register parse payload", "error", err)
		return RespondError(ctx, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("Register validate payload", "error", err)
		return RespondError(ctx, err)
	}

	registerUser := NewRegisterUserHandler(c.Repo)
	user, err := registerUser.Execute(ctx.Context(), RegisterUserMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		c.Logger.Error("Register execute", "error", err)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusCreated, user)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Email, validation.Required, is.Email),
			validation.Field(&r.Password, validation.Required),
		)
	}, "Invalid login payload")
}

// LoginResponse keeps the flattened shape clients already depend on,
// token and user ride at the top level next to success.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

func (c *UsersController) Login(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("Login parse payload", "error", err)
		return RespondError(ctx, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("Login validate payload", "error", err)
		return RespondError(ctx, err)
	}

	token, err := c.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		c.Logger.Error("Login authenticate", "error", err)
		return RespondError(ctx, err)
	}

	user, err := c.Repo.Users().GetByIdentifier(ctx.Context(), payload.Email)
	if err != nil {
		c.Logger.Error("Login load user", "error", err)
		return RespondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, LoginResponse{
		Success: true,
		Token:   "Bearer " + token,
		User:    user,
	})
}

func (c *UsersController) Current(ctx router.Context) error {
	session, err := GetRouterSession(ctx, c.Config.GetContextKey())
	if err != nil {
		c.Logger.Error("Current session", "error", err)
		return RespondError(ctx, err)
	}

	user, err := c.Repo.Users().GetByIdentifier(ctx.Context(), session.GetUserID())
	if err != nil {
		c.Logger.Error("Current load user", "error", err)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, user)
}

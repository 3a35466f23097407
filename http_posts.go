package social

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// PostsController handles the post feed, likes included.
type PostsController struct {
	Logger Logger
	Repo   RepositoryManager
	Config Config
}

type PostsControllerOption func(*PostsController) *PostsController

func NewPostsController(opts ...PostsControllerOption) *PostsController {
	c := &PostsController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in posts controller...")
	}

	return c
}

func WithPostsRepo(repo RepositoryManager) PostsControllerOption {
	return func(c *PostsController) *PostsController {
		c.Repo = repo
		return c
	}
}

func WithPostsConfig(cfg Config) PostsControllerOption {
	return func(c *PostsController) *PostsController {
		c.Config = cfg
		return c
	}
}

func WithPostsLogger(logger Logger) PostsControllerOption {
	return func(c *PostsController) *PostsController {
		c.Logger = logger
		return c
	}
}

// RegisterRoutes mounts the post routes. Reads are public, writes run
// behind the protected middleware.
func (c *PostsController) RegisterRoutes(group RouteRegistrar, protected router.MiddlewareFunc) {
	group.Get("", c.List)
	group.Get("/:id", c.GetByID)
	group.Post("", c.Create, protected)
	group.Put("/:id", c.Update, protected)
	group.Delete("/:id", c.Delete, protected)
	group.Post("/like/:id", c.Like, protected)
	group.Post("/unlike/:id", c.Unlike, protected)
}

func (c *PostsController) List(ctx router.Context) error {
	records, err := c.Repo.Posts().List(ctx.Context())
	if err != nil {
		c.Logger.Error("Post list", "error", err)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, records)
}

func (c *PostsController) GetByID(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, ErrPostNotFound)
	}

	record, err := c.Repo.Posts().GetByID(ctx.Context(), id)
	if err != nil {
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, record)
}

// PostPayload is the create and update body
type PostPayload struct {
	Text string `form:"text" json:"text"`
}

// Validate will run validation rules
func (r PostPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Text, validation.Required, validation.Length(1, 2000)),
		)
	}, "Invalid post payload")
}

func (c *PostsController) Create(ctx router.Context) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	payload := new(PostPayload)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("Post create parse payload", "error", err)
		return RespondError(ctx, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("Post create validate payload", "error", err)
		return RespondError(ctx, err)
	}

	record, err := c.Repo.Posts().Create(ctx.Context(), &Post{
		UserID: uid,
		Text:   payload.Text,
	})
	if err != nil {
		c.Logger.Error("Post create", "error", err)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusCreated, record)
}

func (c *PostsController) Update(ctx router.Context) error {
	payload := new(PostPayload)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("Post update parse payload", "error", err)
		return RespondError(ctx, ErrUnableToParseData)
	}

	if err := payload.Validate(); err != nil {
		c.Logger.Error("Post update validate payload", "error", err)
		return RespondError(ctx, err)
	}

	return c.withOwnedPost(ctx, func(post *Post) error {
		post.Text = payload.Text
		return nil
	})
}

func (c *PostsController) Delete(ctx router.Context) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, ErrPostNotFound)
	}

	post, err := c.Repo.Posts().GetByID(ctx.Context(), id)
	if err != nil {
		return RespondError(ctx, err)
	}

	if !post.IsOwnedBy(uid) {
		return RespondError(ctx, ErrNotResourceOwner)
	}

	if err := c.Repo.Posts().DeleteByID(ctx.Context(), id); err != nil {
		c.Logger.Error("Post delete", "error", err, "post_id", id)
		return RespondError(ctx, err)
	}

	return RespondMsg(ctx, router.StatusOK, "Post removed")
}

func (c *PostsController) Like(ctx router.Context) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	return c.withPost(ctx, func(post *Post) error {
		return post.AddLike(uid)
	})
}

func (c *PostsController) Unlike(ctx router.Context) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	return c.withPost(ctx, func(post *Post) error {
		return post.RemoveLike(uid)
	})
}

// withOwnedPost loads the post, enforces ownership, applies the
// mutation, and saves. A non-owner gets rejected before any change.
func (c *PostsController) withOwnedPost(ctx router.Context, mutate func(*Post) error) error {
	uid, err := c.sessionUserID(ctx)
	if err != nil {
		return RespondError(ctx, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, ErrPostNotFound)
	}

	post, err := c.Repo.Posts().GetByID(ctx.Context(), id)
	if err != nil {
		return RespondError(ctx, err)
	}

	if !post.IsOwnedBy(uid) {
		return RespondError(ctx, ErrNotResourceOwner)
	}

	if err := mutate(post); err != nil {
		return RespondError(ctx, err)
	}

	record, err := c.Repo.Posts().Update(ctx.Context(), post)
	if err != nil {
		c.Logger.Error("Post save", "error", err, "post_id", id)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, record)
}

// withPost is withOwnedPost without the ownership check, anyone
// authenticated may like or unlike.
func (c *PostsController) withPost(ctx router.Context, mutate func(*Post) error) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return RespondError(ctx, ErrPostNotFound)
	}

	post, err := c.Repo.Posts().GetByID(ctx.Context(), id)
	if err != nil {
		return RespondError(ctx, err)
	}

	if err := mutate(post); err != nil {
		return RespondError(ctx, err)
	}

	record, err := c.Repo.Posts().Update(ctx.Context(), post)
	if err != nil {
		c.Logger.Error("Post save", "error", err, "post_id", id)
		return RespondError(ctx, err)
	}

	return RespondData(ctx, router.StatusOK, record)
}

func (c *PostsController) sessionUserID(ctx router.Context) (uuid.UUID, error) {
	session, err := GetRouterSession(ctx, c.Config.GetContextKey())
	if err != nil {
		return uuid.Nil, err
	}

	uid, err := session.GetUserUUID()
	if err != nil {
		return uuid.Nil, ErrUnableToDecodeSession
	}

	return uid, nil
}

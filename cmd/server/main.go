package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	"github.com/joho/godotenv"
	social "github.com/sharesocial/go-social"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *AppConfig
	bunDB  *bun.DB
	auth   social.Authenticator
	auther *social.RouteAuthenticator
	repo   social.RepositoryManager
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

type persistenceConfig struct {
	dsn   string
	debug bool
}

func (p persistenceConfig) GetDSN() string { return p.dsn }

func (p persistenceConfig) GetDebug() bool { return p.debug }

func (p persistenceConfig) GetDriver() string { return "" }

func (p persistenceConfig) GetServer() string { return "" }

func (p persistenceConfig) GetOtelIdentifier() string { return "" }

func (p persistenceConfig) GetPingTimeout() time.Duration { return 5 * time.Second }

func main() {
	// local development convenience, production injects real env vars
	_ = godotenv.Load()

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("sharesocial"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := LoadConfig()
	if cfg.SigningKey == "" {
		log.Fatal("AUTH_SIGNING_KEY is required")
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		log.Fatal(err)
	}

	RegisterRoutes(app)

	app.srv.Serve(cfg.Addr)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.DSN)
	if err != nil {
		return err
	}

	persistence.RegisterModel((*social.User)(nil))
	persistence.RegisterModel((*social.Profile)(nil))
	persistence.RegisterModel((*social.Post)(nil))

	client, err := persistence.New(persistenceConfig{dsn: app.config.DSN}, db, sqlitedialect.New())
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(social.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = social.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	app.srv = srv
	return nil
}

type userTrackerAdapter struct {
	users social.Users
}

func (a userTrackerAdapter) GetByIdentifier(ctx context.Context, identifier string) (*social.User, error) {
	return a.users.GetByIdentifier(ctx, identifier)
}

func (a userTrackerAdapter) TrackAttemptedLogin(ctx context.Context, user *social.User) error {
	return a.users.TrackAttemptedLogin(ctx, user)
}

func (a userTrackerAdapter) TrackSucccessfulLogin(ctx context.Context, user *social.User) error {
	return a.users.TrackSucccessfulLogin(ctx, user)
}

func WithAuth(ctx context.Context, app *App) error {
	userProvider := social.NewUserProvider(userTrackerAdapter{users: app.repo.Users()})
	userProvider.WithLogger(app.GetLogger("auth:prv"))

	authenticator := social.NewAuthenticator(userProvider, app.config)
	authenticator.WithLogger(app.GetLogger("auth"))
	app.auth = authenticator

	auther, err := social.NewHTTPAuthenticator(authenticator, app.config)
	if err != nil {
		return err
	}

	app.auther = auther.WithLogger(app.GetLogger("auth:http"))
	return nil
}

func RegisterRoutes(app *App) {
	r := app.srv.Router()

	protected := app.auther.ProtectedRoute(
		app.config,
		app.auther.MakeClientRouteAuthErrorHandler(false),
	)

	users := social.NewUsersController(
		social.WithUsersRepo(app.repo),
		social.WithUsersAuther(app.auth),
		social.WithUsersConfig(app.config),
		social.WithUsersLogger(app.GetLogger("ctrl:users")),
	)
	users.RegisterRoutes(r.Group("/api/users"), protected)

	profiles := social.NewProfilesController(
		social.WithProfilesRepo(app.repo),
		social.WithProfilesConfig(app.config),
		social.WithProfilesLogger(app.GetLogger("ctrl:profiles")),
	)
	profiles.RegisterRoutes(r.Group("/api/profile"), protected)

	posts := social.NewPostsController(
		social.WithPostsRepo(app.repo),
		social.WithPostsConfig(app.config),
		social.WithPostsLogger(app.GetLogger("ctrl:posts")),
	)
	posts.RegisterRoutes(r.Group("/api/posts"), protected)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

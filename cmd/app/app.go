package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"awesomeblog/internal/config"
	"awesomeblog/internal/database"
	handlers "awesomeblog/internal/handler"
	"awesomeblog/internal/middleware"
	"awesomeblog/internal/models"
	"awesomeblog/internal/repository"
	"awesomeblog/internal/service"
	"awesomeblog/internal/storage"
	"awesomeblog/internal/templates"
	"awesomeblog/internal/web"
)

// rateLimitedPaths are the unauthenticated endpoints that accept passwords.
var rateLimitedPaths = []string{"/api/authenticate", "/api/users"}

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Redis    *redis.Client
	Handler  http.Handler
}

// Connect opens the configured database and wires the application on it.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	a, err := New(ctx, cfg, db, logger)
	if err != nil {
		db.CloseDB()
		return nil, err
	}
	return a, nil
}

// New creates the tables, optional MinIO and Redis clients, and the routed
// handler chain.
func New(ctx context.Context, cfg *config.Config, db *database.DB, logger *zap.Logger) (*App, error) {
	if err := db.RunMigrations(ctx, models.Registry().All()...); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, DB: db}

	var store storage.Storage
	if cfg.MinIOEnabled() {
		minioClient, err := storage.NewMinIOClient(cfg.MinIO, logger)
		if err != nil {
			return nil, err
		}
		if err := minioClient.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		store = minioClient
	} else {
		logger.Info("minio not configured, image uploads disabled")
	}

	var limiter *middleware.RedisRateLimiter
	if cfg.RedisEnabled() {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, rate limiting will fail open", zap.Error(err))
		}
		var err error
		limiter, err = middleware.NewRedisRateLimiter(a.Redis, cfg.Redis.RateLimit, cfg.Redis.Window)
		if err != nil {
			return nil, err
		}
	}

	a.Repo = repository.NewRepository(db, logger)
	a.Services = service.NewService(a.Repo, cfg, store, logger)

	var fsys fs.FS = templates.FS
	if cfg.Server.Templates != "" {
		fsys = os.DirFS(cfg.Server.Templates)
	}
	tpl, err := web.NewTemplates(fsys)
	if err != nil {
		return nil, err
	}

	responder := web.NewResponder(tpl, currentUser, logger)
	mux := chi.NewRouter()
	rt := web.NewRouter(mux, responder, logger)
	handlers.NewHandlers(a.Services, cfg, logger).Register(rt)
	if err := rt.Err(); err != nil {
		return nil, err
	}

	mws := []middleware.Middleware{
		middleware.Auth(a.Services.Auth, cfg.Session.CookieName, logger),
		middleware.RateLimit(limiter, logger, rateLimitedPaths...),
	}
	if cfg.Server.TrustedProxies {
		mws = append(mws, chimw.RealIP)
	}
	mws = append(mws,
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.Recovery(logger),
		middleware.Logging(logger),
	)
	a.Handler = middleware.Chain(mux, mws...)
	return a, nil
}

func currentUser(r *http.Request) any {
	if u := middleware.CurrentUser(r); u != nil {
		return u
	}
	return nil
}

// Serve listens on the configured port until ctx is cancelled, then drains
// in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server started", zap.String("addr", srv.Addr), zap.String("db", a.Config.DB.Name))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	errs = append(errs, a.DB.CloseDB())
	return errors.Join(errs...)
}

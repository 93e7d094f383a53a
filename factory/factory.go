package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"sportsevents/config"
	"sportsevents/services"
	"sportsevents/store"
	"sportsevents/store/memory"
	"sportsevents/store/postgres"
)

// App contains all wired application components
type App struct {
	Store    store.Store
	Cache    services.CatalogCache
	Hub      *services.Hub
	Location *time.Location

	AuthService         *services.AuthService
	GameService         *services.GameService
	RegistrationService *services.RegistrationService

	closers []func() error
}

// Options are the settings Wire needs beyond storage.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// Location renders export timestamps. Defaults to UTC.
	Location *time.Location
	// Now stamps registrations. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// New opens the configured storage and cache backends and wires the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	cache, closeCache, err := openCatalogCache(ctx, cfg, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	app := Wire(st, cache, Options{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Location:  loc,
		Logger:    logger,
	})
	if closeCache != nil {
		app.closers = append(app.closers, closeCache)
	}
	return app, nil
}

// Wire builds the services on top of an already opened store. cache may be nil.
func Wire(st store.Store, cache services.CatalogCache, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	tokenTTL := opts.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	hub := services.NewHub(logger)

	return &App{
		Store:               st,
		Cache:               cache,
		Hub:                 hub,
		Location:            loc,
		AuthService:         services.NewAuthService(st, opts.JWTSecret, tokenTTL, logger),
		GameService:         services.NewGameService(st, cache, hub, logger),
		RegistrationService: services.NewRegistrationService(st, st, hub, logger, opts.Now),
		closers:             []func() error{st.Close},
	}
}

// Close releases the store and cache connections.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.StorageType {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.New(), nil
	case config.StoragePostgres:
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return postgres.New(db), nil
	default:
		return nil, fmt.Errorf("invalid storage type %q", cfg.StorageType)
	}
}

func openCatalogCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.CatalogCache, func() error, error) {
	switch cfg.CacheBackend {
	case config.CacheMemory:
		return services.NewMemoryCatalogCache(cfg.CatalogCacheTTL), nil, nil
	case config.CacheRedis:
		client := config.InitRedis(cfg)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return services.NewRedisCatalogCache(client, cfg.CatalogCacheTTL, logger), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid cache backend %q", cfg.CacheBackend)
	}
}

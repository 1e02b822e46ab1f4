package app

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parkada/internal/auth"
	"parkada/internal/auth/password"
	"parkada/internal/catalog"
	"parkada/internal/config"
	httpserver "parkada/internal/http"
	"parkada/internal/http/handlers"
	"parkada/internal/http/middleware"
	"parkada/internal/notify"
	"parkada/internal/redisstore"
	"parkada/internal/repository"
	"parkada/internal/service"
	"parkada/internal/store"
	libdb "parkada/libs/db"
	libredis "parkada/libs/redis"
)

// App wires parkada dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph. With no database DSN configured
// the service runs on the in-memory store, which is the demo deployment.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	var (
		sqlDB        *sql.DB
		sessionStore store.SessionStore
		err          error
	)
	if strings.TrimSpace(cfg.Database.DSN) != "" {
		sqlDB, err = libdb.NewPostgresDB(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		sessionStore = repository.NewSessionRepository(sqlDB)
	} else {
		logger.Info("no database configured, using in-memory session store")
		sessionStore = store.NewMemory()
	}

	var (
		redisClient *redis.Client
		cache       *redisstore.Cache
	)
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			if sqlDB != nil {
				sqlDB.Close()
			}
			return nil, err
		}
		cache = redisstore.NewCache(redisClient, cfg.ActiveSessionTTL())
	}

	broker := notify.NewBroker()
	sessionsService := service.NewSessionsService(sessionStore, cache, broker, logger)

	spotCatalog := catalog.New()
	earningsService := service.NewEarningsService(sessionsService, spotCatalog)

	tokenService := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	hasher := password.NewBcryptHasher(0)
	authService, err := auth.NewAuthService(auth.NewUserRepository(), hasher, tokenService, cfg.Auth.DemoPassword, logger)
	if err != nil {
		if sqlDB != nil {
			sqlDB.Close()
		}
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, err
	}

	authHandlers := handlers.NewAuthHandlers(authService, logger)
	sessionHandlers := handlers.NewSessionsHandlers(sessionsService, spotCatalog, logger)
	spotHandlers := handlers.NewSpotsHandlers(spotCatalog, sessionsService)
	eventsHandler := handlers.NewEventsWSHandler(broker, tokenService, logger)

	authed := middleware.AuthMiddleware(tokenService)

	routes := httpserver.Routes{
		Login:         http.HandlerFunc(authHandlers.HandleLogin),
		Signup:        http.HandlerFunc(authHandlers.HandleSignup),
		Spots:         http.HandlerFunc(spotHandlers.HandleList),
		AddSpot:       authed(http.HandlerFunc(spotHandlers.HandleAdd)),
		SpotSessions:  authed(http.HandlerFunc(spotHandlers.HandleSpotSessions)),
		SessionStart:  authed(http.HandlerFunc(sessionHandlers.HandleStart)),
		SessionEnd:    authed(http.HandlerFunc(sessionHandlers.HandleEnd)),
		SessionsMe:    authed(http.HandlerFunc(sessionHandlers.HandleMe)),
		ActiveSession: authed(http.HandlerFunc(sessionHandlers.HandleActive)),
		Receipt:       authed(http.HandlerFunc(sessionHandlers.HandleReceipt)),
		Earnings:      authed(handlers.NewEarningsHandler(earningsService)),
		EventsWS:      http.HandlerFunc(eventsHandler.HandleWS),
		Health:        handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}

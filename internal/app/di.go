// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	authHTTP "github.com/gegcuk/kidsgpt-backend/internal/auth/http"
	authRepository "github.com/gegcuk/kidsgpt-backend/internal/auth/repository"
	authService "github.com/gegcuk/kidsgpt-backend/internal/auth/service"
	authUseCase "github.com/gegcuk/kidsgpt-backend/internal/auth/usecase"
	chatHTTP "github.com/gegcuk/kidsgpt-backend/internal/chat/http"
	chatService "github.com/gegcuk/kidsgpt-backend/internal/chat/service"
	chatUseCase "github.com/gegcuk/kidsgpt-backend/internal/chat/usecase"
	"github.com/gegcuk/kidsgpt-backend/internal/config"
	"github.com/gegcuk/kidsgpt-backend/internal/database"
	"github.com/gegcuk/kidsgpt-backend/internal/http"
	"github.com/gegcuk/kidsgpt-backend/internal/metrics"
	userUseCase "github.com/gegcuk/kidsgpt-backend/internal/user/usecase"
)

// Version is reported by the metrics provider. Overridden at build time.
var Version = "dev"

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	redisClient     *redis.Client
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// User
	userRepo    userUseCase.UserRepository
	roleRepo    userUseCase.RoleRepository
	userUseCase userUseCase.UseCase

	// Auth
	tokenCodec        authService.TokenCodec
	passwordService   authService.PasswordService
	tokenHasher       authService.TokenHasher
	revokedTokenRepo  authUseCase.RevokedTokenRepository
	revocationUseCase authUseCase.RevocationUseCase
	principalResolver authUseCase.PrincipalResolver
	authenticator     authUseCase.Authenticator
	sessionUseCase    authUseCase.SessionUseCase
	sessionHandler    *authHTTP.SessionHandler
	purgeWorker       *authUseCase.PurgeWorker

	// Chat
	chatRepo      chatUseCase.ChatRepository
	languageModel *chatService.OpenAIClient
	chatUseCase   chatUseCase.UseCase
	chatHandler   *chatHTTP.ChatHandler

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	redisClientInit       sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	txManagerInit         sync.Once
	userRepoInit          sync.Once
	roleRepoInit          sync.Once
	userUseCaseInit       sync.Once
	tokenCodecInit        sync.Once
	passwordServiceInit   sync.Once
	tokenHasherInit       sync.Once
	revokedTokenRepoInit  sync.Once
	revocationUseCaseInit sync.Once
	principalResolverInit sync.Once
	authenticatorInit     sync.Once
	sessionUseCaseInit    sync.Once
	sessionHandlerInit    sync.Once
	purgeWorkerInit       sync.Once
	chatRepoInit          sync.Once
	languageModelInit     sync.Once
	chatUseCaseInit       sync.Once
	chatHandlerInit       sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// RedisClient returns the Redis client, or nil when REDIS_URL is empty.
func (c *Container) RedisClient() (*redis.Client, error) {
	var err error
	c.redisClientInit.Do(func() {
		c.redisClient, err = c.initRedisClient()
		if err != nil {
			c.initErrors["redisClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["redisClient"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// MetricsProvider returns the OpenTelemetry provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is returned when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initRedisClient() (*redis.Client, error) {
	if c.config.RedisURL == "" {
		return nil, nil
	}
	client, err := authRepository.NewRedisClient(context.Background(), c.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initHTTPServer creates the HTTP server and mounts every route.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	sessionHandler, err := c.SessionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get session handler for http server: %w", err)
	}

	chatHandler, err := c.ChatHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get chat handler for http server: %w", err)
	}

	tokenCodec, err := c.TokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for http server: %w", err)
	}

	revocationUseCase, err := c.RevocationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get revocation use case for http server: %w", err)
	}

	principalResolver, err := c.PrincipalResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get principal resolver for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(
		c.config,
		sessionHandler,
		chatHandler,
		tokenCodec,
		revocationUseCase,
		principalResolver,
		metricsProvider,
	)

	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}

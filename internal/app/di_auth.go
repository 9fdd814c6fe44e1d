package app

import (
	"context"
	"fmt"
	"time"

	authHTTP "github.com/gegcuk/kidsgpt-backend/internal/auth/http"
	authRepository "github.com/gegcuk/kidsgpt-backend/internal/auth/repository"
	authService "github.com/gegcuk/kidsgpt-backend/internal/auth/service"
	authUseCase "github.com/gegcuk/kidsgpt-backend/internal/auth/usecase"
)

// signingKeyTimeout bounds the KMS round trip when the signing key is envelope-encrypted.
const signingKeyTimeout = 30 * time.Second

// TokenCodec returns the JWT codec. The signing key is loaded on first access.
func (c *Container) TokenCodec() (authService.TokenCodec, error) {
	var err error
	c.tokenCodecInit.Do(func() {
		c.tokenCodec, err = c.initTokenCodec()
		if err != nil {
			c.initErrors["tokenCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenCodec"]; exists {
		return nil, storedErr
	}
	return c.tokenCodec, nil
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// TokenHasher returns the token digest service used by the revocation store.
func (c *Container) TokenHasher() authService.TokenHasher {
	c.tokenHasherInit.Do(func() {
		c.tokenHasher = authService.NewTokenHasher()
	})
	return c.tokenHasher
}

// RevokedTokenRepository returns the revocation store, fronted by Redis when configured.
func (c *Container) RevokedTokenRepository() (authUseCase.RevokedTokenRepository, error) {
	var err error
	c.revokedTokenRepoInit.Do(func() {
		c.revokedTokenRepo, err = c.initRevokedTokenRepository()
		if err != nil {
			c.initErrors["revokedTokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["revokedTokenRepo"]; exists {
		return nil, storedErr
	}
	return c.revokedTokenRepo, nil
}

// RevocationUseCase returns the revocation use case instance.
func (c *Container) RevocationUseCase() (authUseCase.RevocationUseCase, error) {
	var err error
	c.revocationUseCaseInit.Do(func() {
		c.revocationUseCase, err = c.initRevocationUseCase()
		if err != nil {
			c.initErrors["revocationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["revocationUseCase"]; exists {
		return nil, storedErr
	}
	return c.revocationUseCase, nil
}

// PrincipalResolver returns the principal resolver instance.
func (c *Container) PrincipalResolver() (authUseCase.PrincipalResolver, error) {
	var err error
	c.principalResolverInit.Do(func() {
		c.principalResolver, err = c.initPrincipalResolver()
		if err != nil {
			c.initErrors["principalResolver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["principalResolver"]; exists {
		return nil, storedErr
	}
	return c.principalResolver, nil
}

// Authenticator returns the credential checker.
func (c *Container) Authenticator() (authUseCase.Authenticator, error) {
	var err error
	c.authenticatorInit.Do(func() {
		c.authenticator, err = c.initAuthenticator()
		if err != nil {
			c.initErrors["authenticator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authenticator"]; exists {
		return nil, storedErr
	}
	return c.authenticator, nil
}

// SessionUseCase returns the session use case instance.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// SessionHandler returns the login/logout/me HTTP handler.
func (c *Container) SessionHandler() (*authHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		c.sessionHandler, err = c.initSessionHandler()
		if err != nil {
			c.initErrors["sessionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionHandler"]; exists {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// PurgeWorker returns the background worker that deletes expired revocations.
func (c *Container) PurgeWorker() (*authUseCase.PurgeWorker, error) {
	var err error
	c.purgeWorkerInit.Do(func() {
		c.purgeWorker, err = c.initPurgeWorker()
		if err != nil {
			c.initErrors["purgeWorker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["purgeWorker"]; exists {
		return nil, storedErr
	}
	return c.purgeWorker, nil
}

func (c *Container) initTokenCodec() (authService.TokenCodec, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signingKeyTimeout)
	defer cancel()

	key, err := authService.LoadSigningKey(ctx, c.config.JWTSecret, c.config.JWTKMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to load jwt signing key: %w", err)
	}

	codec, err := authService.NewTokenCodec(key, time.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	return codec, nil
}

func (c *Container) initRevokedTokenRepository() (authUseCase.RevokedTokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for revoked token repository: %w", err)
	}

	var store authUseCase.RevokedTokenRepository
	switch c.config.DBDriver {
	case "mysql":
		store = authRepository.NewMySQLRevokedTokenRepository(db)
	case "postgres":
		store = authRepository.NewPostgreSQLRevokedTokenRepository(db)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}

	redisClient, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for revoked token repository: %w", err)
	}
	if redisClient == nil {
		return store, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for revoked token cache: %w", err)
	}

	return authRepository.NewRedisRevokedTokenCache(
		redisClient,
		store,
		c.config.RevocationCacheTTL,
		businessMetrics,
		c.Logger(),
	), nil
}

func (c *Container) initRevocationUseCase() (authUseCase.RevocationUseCase, error) {
	repo, err := c.RevokedTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get revoked token repository for revocation use case: %w", err)
	}

	baseUseCase := authUseCase.NewRevocationUseCase(repo, c.TokenHasher())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for revocation use case: %w", err)
		}
		return authUseCase.NewRevocationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initPrincipalResolver() (authUseCase.PrincipalResolver, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for principal resolver: %w", err)
	}
	return authUseCase.NewPrincipalResolver(userRepo), nil
}

func (c *Container) initAuthenticator() (authUseCase.Authenticator, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for authenticator: %w", err)
	}
	return authUseCase.NewAuthenticator(userRepo, c.PasswordService()), nil
}

func (c *Container) initSessionUseCase() (authUseCase.SessionUseCase, error) {
	authenticator, err := c.Authenticator()
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticator for session use case: %w", err)
	}

	codec, err := c.TokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for session use case: %w", err)
	}

	revocationUseCase, err := c.RevocationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get revocation use case for session use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for session use case: %w", err)
	}

	baseUseCase := authUseCase.NewSessionUseCase(
		authUseCase.SessionConfig{
			AccessTTL:  c.config.JWTAccessExpiration,
			RefreshTTL: c.config.JWTRefreshExpiration,
		},
		authenticator,
		codec,
		revocationUseCase,
		userRepo,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
		}
		return authUseCase.NewSessionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initSessionHandler() (*authHTTP.SessionHandler, error) {
	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for session handler: %w", err)
	}
	return authHTTP.NewSessionHandler(sessionUseCase, c.Logger()), nil
}

func (c *Container) initPurgeWorker() (*authUseCase.PurgeWorker, error) {
	revocationUseCase, err := c.RevocationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get revocation use case for purge worker: %w", err)
	}
	return authUseCase.NewPurgeWorker(revocationUseCase, c.config.RevocationPurgeInterval, c.Logger()), nil
}

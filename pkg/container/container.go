package container

import (
	"context"
	"fmt"
	"time"

	"bizcard-backend/internal/config"
	infraCache "bizcard-backend/internal/infrastructure/cache"
	"bizcard-backend/internal/infrastructure/database"
	"bizcard-backend/pkg/cache"
	"bizcard-backend/pkg/jwt"
	"bizcard-backend/pkg/logger"

	"bizcard-backend/internal/domains/analytics"
	analyticsHandler "bizcard-backend/internal/domains/analytics/handler"
	analyticsRepo "bizcard-backend/internal/domains/analytics/repository"
	analyticsService "bizcard-backend/internal/domains/analytics/service"
	card "bizcard-backend/internal/domains/card"
	cardHandler "bizcard-backend/internal/domains/card/handler"
	cardRepo "bizcard-backend/internal/domains/card/repository"
	cardService "bizcard-backend/internal/domains/card/service"
	profile "bizcard-backend/internal/domains/profile"
	profileHandler "bizcard-backend/internal/domains/profile/handler"
	profileRepo "bizcard-backend/internal/domains/profile/repository"
	profileService "bizcard-backend/internal/domains/profile/service"
	user "bizcard-backend/internal/domains/user"
	userHandler "bizcard-backend/internal/domains/user/handler"
	userRepo "bizcard-backend/internal/domains/user/repository"
	userService "bizcard-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton; construction order is config, infrastructure, repositories,
// services, handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	UserRepo      user.Repository
	ProfileRepo   profile.Repository
	CardRepo      card.Repository
	AnalyticsRepo analytics.Repository

	UserService      user.Service
	ProfileService   profile.Service
	CardService      card.Service
	AnalyticsService analytics.Service
	Tracker          analytics.Tracker

	UserHandler      *userHandler.UserHandler
	ProfileHandler   *profileHandler.ProfileHandler
	CardHandler      *cardHandler.CardHandler
	AnalyticsHandler *analyticsHandler.AnalyticsHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		// Redis being down degrades caching and rate limiting, it does not
		// stop the app.
		if err := rc.Connect(context.Background()); err != nil {
			logger.Warn("Redis connection failed, continuing without warm cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.ProfileRepo = profileRepo.NewPostgresRepository(pool)
	c.CardRepo = cardRepo.NewPostgresRepository(pool)
	c.AnalyticsRepo = analyticsRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.ProfileService = profileService.NewProfileService(c.ProfileRepo)

	c.Tracker = analyticsService.NewTracker(c.AnalyticsRepo, analyticsService.TrackerConfig{
		BufferSize:         c.Config.Analytics.BufferSize,
		FlushInterval:      c.Config.Analytics.FlushInterval,
		ForceFlushAttempts: c.Config.Analytics.ForceFlushAttempts,
		ForceFlushDelay:    c.Config.Analytics.ForceFlushDelay,
	})
	c.AnalyticsService = analyticsService.NewAnalyticsService(c.AnalyticsRepo)

	c.CardService = cardService.NewCardService(c.CardRepo, c.Cache, c.Tracker, c.Config.Analytics.CardCacheTTL)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ProfileHandler = profileHandler.NewProfileHandler(c.ProfileService)
	c.CardHandler = cardHandler.NewCardHandler(c.CardService)
	c.AnalyticsHandler = analyticsHandler.NewAnalyticsHandler(c.AnalyticsService)
}

// Cleanup closes long-lived connections. The tracker is drained separately
// through the shutdown registry before this runs.
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("Failed to close database pool", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis client", err)
		}
	}
}

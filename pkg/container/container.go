package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"angeles-backend/internal/config"
	infraCache "angeles-backend/internal/infrastructure/cache"
	"angeles-backend/internal/infrastructure/database"
	"angeles-backend/pkg/cache"
	"angeles-backend/pkg/jwt"
	"angeles-backend/pkg/logger"

	articleHandler "angeles-backend/internal/domains/article/handler"
	articleRepo "angeles-backend/internal/domains/article/repository"
	articleService "angeles-backend/internal/domains/article/service"
	userHandler "angeles-backend/internal/domains/user/handler"
	userRepo "angeles-backend/internal/domains/user/repository"
	userService "angeles-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph.
// Every field is a singleton for the lifetime of the process.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient // nil when Redis is unreachable
	Cache      cache.Cache             // nil when Redis is unreachable
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo    userRepo.Repository
	ArticleRepo articleRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService    userService.Service
	ArticleService articleService.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler    *userHandler.UserHandler
	ArticleHandler *articleHandler.ArticleHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the whole graph in dependency order:
// config → infrastructure → repositories → services → handlers
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
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
	c.DB = db

	if cfg.App.AutoMigrate {
		if err := db.MigrateUp(); err != nil {
			c.Cleanup()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ========================================
	// STEP 2: CACHE (non-critical)
	// ========================================
	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(ctx); err != nil {
		logger.Warn("Redis unavailable, continuing without cache", err)
		_ = redisClient.Close()
	} else {
		c.Redis = redisClient
		c.Cache = infraCache.NewRedisCache(redisClient.Client)
	}

	// ========================================
	// STEP 3: TOKENS
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// ========================================
	// STEP 4-6: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("DI container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
		"cache":       c.Cache != nil,
		"migrations":  cfg.App.AutoMigrate,
	})
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache)
	c.ArticleRepo = articleRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.ArticleService = articleService.NewArticleService(c.ArticleRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ArticleHandler = articleHandler.NewArticleHandler(c.ArticleService)
}

// ========================================
// HEALTH
// ========================================

// HealthCheck reports the status of every backing service.
// The database is required, the cache is optional.
func (c *Container) HealthCheck(ctx context.Context) (dbStatus, cacheStatus string) {
	dbStatus = "ok"
	if c.DB == nil {
		dbStatus = "disconnected"
	} else if err := c.DB.HealthCheck(ctx); err != nil {
		dbStatus = "error"
		log.Warn().Err(err).Msg("Database health check failed")
	}

	cacheStatus = "ok"
	if c.Cache == nil {
		cacheStatus = "disconnected"
	} else if err := c.Cache.Ping(ctx); err != nil {
		cacheStatus = "error"
		log.Warn().Err(err).Msg("Cache health check failed")
	}

	return dbStatus, cacheStatus
}

// Cleanup releases the pools. Called on graceful shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Warn("Failed to close database", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Warn("Failed to close Redis", err)
		}
	}
}

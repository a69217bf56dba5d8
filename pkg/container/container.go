package container

import (
	"context"
	"fmt"
	"time"

	"realty-backend/internal/config"
	infracache "realty-backend/internal/infrastructure/cache"
	"realty-backend/internal/infrastructure/database"
	"realty-backend/internal/infrastructure/email"
	"realty-backend/internal/infrastructure/storage"
	"realty-backend/pkg/cache"
	"realty-backend/pkg/jwt"
	"realty-backend/pkg/logger"

	listinghandler "realty-backend/internal/domains/listing/handler"
	listingrepo "realty-backend/internal/domains/listing/repository"
	listingservice "realty-backend/internal/domains/listing/service"
	mediahandler "realty-backend/internal/domains/media/handler"
	mediarepo "realty-backend/internal/domains/media/repository"
	mediaservice "realty-backend/internal/domains/media/service"
	savedsearchhandler "realty-backend/internal/domains/savedsearch/handler"
	savedsearchrepo "realty-backend/internal/domains/savedsearch/repository"
	savedsearchservice "realty-backend/internal/domains/savedsearch/service"
	taxonomyhandler "realty-backend/internal/domains/taxonomy/handler"
	taxonomyrepo "realty-backend/internal/domains/taxonomy/repository"
	taxonomyservice "realty-backend/internal/domains/taxonomy/service"
	userhandler "realty-backend/internal/domains/user/handler"
	userrepo "realty-backend/internal/domains/user/repository"
	userservice "realty-backend/internal/domains/user/service"

	"github.com/redis/go-redis/v9"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton wired once at startup, in order: config, infrastructure,
// repositories, services, handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    storage.ObjectStorage
	Email      email.EmailService
	JWTManager *jwt.Manager

	redisClient *redis.Client

	MediaService       mediaservice.MediaService
	ListingService     listingservice.ListingService
	TaxonomyService    taxonomyservice.TaxonomyService
	UserService        userservice.UserService
	SavedSearchService savedsearchservice.SavedSearchService

	MediaHandler       *mediahandler.MediaHandler
	ListingHandler     *listinghandler.ListingHandler
	TaxonomyHandler    *taxonomyhandler.TaxonomyHandler
	UserHandler        *userhandler.UserHandler
	SavedSearchHandler *savedsearchhandler.SavedSearchHandler
}

func New() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.Config = cfg

	db := database.New(cfg.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.DB = db

	c.Cache, c.redisClient = infracache.NewRedisCache(
		cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Ping(context.Background()); err != nil {
		// The cache layer degrades to pass-through; startup continues.
		logger.Warn("redis unreachable, cache disabled", map[string]interface{}{
			"host":  cfg.Redis.Host,
			"error": err.Error(),
		})
	}

	store, err := newObjectStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init storage backend: %w", err)
	}
	c.Storage = store

	c.Email = email.NewSMTPEmailService(cfg.SMTP)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	c.wire()

	logger.Info("container initialized", map[string]interface{}{
		"environment":     cfg.App.Environment,
		"storage_backend": cfg.Storage.Backend,
	})
	return c, nil
}

// newObjectStorage picks the backend from configuration: local disk for
// development, a push-zone CDN or any S3-compatible store in production.
func newObjectStorage(cfg config.StorageConfig) (storage.ObjectStorage, error) {
	switch cfg.Backend {
	case "local":
		return storage.NewLocalStorage(cfg), nil
	case "cdn":
		return storage.NewCDNStorage(cfg), nil
	case "s3":
		return storage.NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func (c *Container) wire() {
	pool := c.DB.Pool

	mediaRepository := mediarepo.NewPostgresRepository(pool)
	listingRepository := listingrepo.NewPostgresRepository(pool)
	termRepository := taxonomyrepo.NewTermRepository(pool)
	locationRepository := taxonomyrepo.NewLocationRepository(pool)
	userRepository := userrepo.NewPostgresRepository(pool)
	savedSearchRepository := savedsearchrepo.NewPostgresRepository(pool)

	c.MediaService = mediaservice.NewMediaService(
		mediaRepository,
		c.Storage,
		storage.NewValidator(c.Config.Media),
		storage.NewVariantGenerator(c.Config.Media),
		c.Cache,
	)
	c.ListingService = listingservice.NewListingService(listingRepository, c.MediaService, c.Cache, c.Config.Cache)
	c.TaxonomyService = taxonomyservice.NewTaxonomyService(termRepository, locationRepository, c.Cache, c.Config.Cache)
	c.UserService = userservice.NewUserService(userRepository, c.JWTManager, c.Email)
	c.SavedSearchService = savedsearchservice.NewSavedSearchService(savedSearchRepository)

	c.MediaHandler = mediahandler.NewMediaHandler(c.MediaService)
	c.ListingHandler = listinghandler.NewListingHandler(c.ListingService)
	c.TaxonomyHandler = taxonomyhandler.NewTaxonomyHandler(c.TaxonomyService)
	c.UserHandler = userhandler.NewUserHandler(c.UserService)
	c.SavedSearchHandler = savedsearchhandler.NewSavedSearchHandler(c.SavedSearchService)
}

// Cleanup releases shared resources during graceful shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			logger.Error("failed to close redis client", err)
		}
	}
	logger.Info("container cleanup completed", nil)
}

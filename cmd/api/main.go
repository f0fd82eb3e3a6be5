package main

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fridgechef/backend/config"
	"github.com/fridgechef/backend/internal/api"
	"github.com/fridgechef/backend/internal/database"
	"github.com/fridgechef/backend/internal/logging"
	"github.com/fridgechef/backend/internal/middleware"
	"github.com/fridgechef/backend/internal/recommend"
	"github.com/fridgechef/backend/internal/server"
	"github.com/fridgechef/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.RunMigrations(db, logger); err != nil {
		return err
	}

	// Redis is optional: without it rate limiting is off and locks stay in process.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, continuing without it", zap.Error(err))
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
		}
	}

	recommendations, err := newRecommendationService(cfg, db, redisClient, logger)
	if err != nil {
		return err
	}

	deps := api.Dependencies{
		DB:              db,
		Auth:            service.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Recipes:         service.NewRecipeService(db, logger),
		Pantry:          service.NewPantryService(db),
		Favorites:       service.NewFavoriteService(db),
		Comments:        service.NewCommentService(db),
		Recommendations: recommendations,
		Logger:          logger,
	}
	if !strings.EqualFold(cfg.Storage.Backend, "s3") {
		deps.MediaDir = cfg.Storage.MediaDir
	}
	if cfg.RateLimit.Enabled && redisClient != nil {
		deps.AILimiter = middleware.NewAIRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	}

	srv := server.New(cfg.Server, deps, logger)
	return srv.Run(context.Background())
}

func newRecommendationService(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) (*service.RecommendationService, error) {
	exclusions, err := recommend.ParseExclusions(cfg.Matching.Exclusions)
	if err != nil {
		return nil, err
	}
	ranker := recommend.DefaultRanker()
	if cfg.Matching.Threshold > 0 {
		ranker.Threshold = cfg.Matching.Threshold
	}
	if cfg.Matching.TopN > 0 {
		ranker.Limit = cfg.Matching.TopN
	}
	engine := recommend.NewEngine(recommend.NewLoader(cfg.Dataset.Paths, logger), recommend.NewMatcher(exclusions), ranker, logger)

	deps := service.RecommendationDeps{
		DB:     db,
		Engine: engine,
		Logger: logger,
		Config: service.RecommendationConfig{
			TextTimeout:    cfg.AI.Text.Timeout,
			ImageTimeout:   cfg.AI.Image.Timeout,
			PlaceholderURL: cfg.AI.Image.PlaceholderURL,
			Parallel:       cfg.AI.Parallel,
		},
	}

	if cfg.TextAIEnabled() {
		deps.Text = service.NewChatClient(cfg.AI.Text, cfg.AI.Breaker, logger)
	} else {
		logger.Warn("text AI key not set, recipes use the fallback details")
	}

	if cfg.ImageAIEnabled() {
		deps.Images = service.NewGeminiImageClient(cfg.AI.Image, cfg.AI.Breaker, logger)
		store, err := newImageStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		deps.Store = store
	} else {
		logger.Warn("image AI key not set, recipes use placeholder images")
	}

	local := service.NewKeyedMutex()
	if redisClient != nil {
		lockTTL := 2 * (cfg.AI.Text.Timeout + cfg.AI.Image.Timeout)
		deps.Locker = service.ChainLocker{local, service.NewRedisLocker(redisClient, lockTTL, logger)}
	} else {
		deps.Locker = local
	}

	return service.NewRecommendationService(deps), nil
}

func newImageStore(cfg *config.Config, logger *zap.Logger) (service.ImageStore, error) {
	if strings.EqualFold(cfg.Storage.Backend, "s3") {
		s3Config, err := config.NewS3Config(context.Background(), cfg.Storage)
		if err != nil {
			return nil, err
		}
		return service.NewS3ImageStore(s3Config, logger), nil
	}
	return service.NewLocalImageStore(cfg.Storage.MediaDir, cfg.Server.PublicURL, logger)
}

package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fridgechef/backend/config"
	"github.com/fridgechef/backend/internal/database"
	"github.com/fridgechef/backend/internal/logging"
	"github.com/fridgechef/backend/internal/recommend"
	"github.com/fridgechef/backend/internal/service"
)

// seed_recipes stores the CSV dataset as recipes with their ingredients so
// they can be browsed before anyone asks for a recommendation. Text and
// images are still generated lazily by the recommend endpoint.
func main() {
	limit := flag.Int("limit", 0, "Seed at most this many recipes (0 = all)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	loader := recommend.NewLoader(cfg.Dataset.Paths, logger)
	dataset, err := loader.Load()
	if err != nil {
		logger.Fatal("failed to load recipe dataset", zap.Strings("paths", cfg.Dataset.Paths), zap.Error(err))
	}

	candidates := dataset.Recipes
	if *limit > 0 && len(candidates) > *limit {
		candidates = candidates[:*limit]
	}

	svc := service.NewRecommendationService(service.RecommendationDeps{
		DB:     db,
		Engine: recommend.NewEngine(recommend.StaticDataset{Snapshot: dataset}, nil, recommend.DefaultRanker(), logger),
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seeded, err := svc.Seed(ctx, candidates)
	if err != nil {
		logger.Fatal("seeding stopped", zap.Int("seeded", seeded), zap.Error(err))
	}
	logger.Info("seeded recipes",
		zap.String("dataset", dataset.Path),
		zap.Int("seeded", seeded),
		zap.Int("skipped_rows", dataset.Skipped))
}

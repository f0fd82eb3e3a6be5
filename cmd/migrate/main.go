package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/fridgechef/backend/config"
	"github.com/fridgechef/backend/internal/database"
	"github.com/fridgechef/backend/internal/logging"
	"github.com/fridgechef/backend/internal/models"
)

func main() {
	// Parse command line flags
	drop := flag.Bool("drop", false, "Drop every table before migrating")
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

	if *drop {
		tables := models.All()
		// Dependents first so foreign keys never block the drop.
		for i := len(tables) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(tables[i]); err != nil {
				logger.Fatal("failed to drop table", zap.Error(err))
			}
		}
		logger.Info("dropped all tables")
	}

	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations applied")
}

package database

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fridgechef/backend/config"
)

// DSN builds the postgres connection string from the discrete fields
// unless a URL is configured.
func DSN(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") || strings.HasPrefix(path, "file:") {
		return path
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

// New opens the configured database and applies the pool settings.
func New(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		log.Info("connecting to postgres", zap.String("host", cfg.Host), zap.String("port", cfg.Port), zap.String("user", cfg.User))
		dialector = postgres.Open(DSN(cfg))
	case "sqlite":
		log.Info("opening sqlite database", zap.String("path", cfg.SQLitePath))
		dialector = sqlite.Open(sqliteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Info("successfully connected to database", zap.String("driver", cfg.Driver))
	return db, nil
}

// HealthCheck checks if the database is accessible
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

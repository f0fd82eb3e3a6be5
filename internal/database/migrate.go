package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fridgechef/backend/internal/models"
)

// RunMigrations creates or updates every table the service uses.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("running schema migrations", zap.String("dialect", db.Dialector.Name()))
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

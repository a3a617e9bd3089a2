package database

import (
	"fmt"

	"github.com/goncalo-araujo/babyshower/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Item{},
		&models.Contribution{},
		&models.RateLimit{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

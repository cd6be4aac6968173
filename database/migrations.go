package database

import (
	"devfolio/models"

	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Article{},
		&models.TimelineEntry{},
		&models.Project{},
	)
}

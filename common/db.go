package common

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDb opens the sqlite database at the given path.
func ConnectDb(dbFile string) (*gorm.DB, error) {
	if dbFile == "" {
		return nil, fmt.Errorf("database file not configured")
	}

	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db %s: %w", dbFile, err)
	}
	return db, nil
}

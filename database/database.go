package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"snow-backend/models"
)

// Connect opens the SQLite database at path and migrates the schema. The
// handle is returned to the caller for injection; there is no package-level
// *gorm.DB.
func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.TrackingBatch{},
		&models.VerificationRecord{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

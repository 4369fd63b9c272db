package db

import (
	"fmt"

	gormModels "disaster-relief/beacon/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitQueueDB opens (creating if needed) the on-device SQLite database that
// backs the local durable queue. The file must survive process restarts;
// tests pass ":memory:".
func InitQueueDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open queue database: %w", err)
	}

	if err := db.AutoMigrate(&gormModels.PendingReport{}); err != nil {
		return nil, fmt.Errorf("failed to migrate queue schema: %w", err)
	}

	return db, nil
}

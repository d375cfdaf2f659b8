package datastore

import (
	"fmt"

	"gorm.io/gorm"
)

// performAutoMigration automates database migrations with error handling.
// The host application is expected to run this once at startup, before any
// recording session begins.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Record{}, &Leq{}, &LeqValue{}, &RecordTag{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		getLogger().Debug("Database connection initialized",
			"db_type", dbType,
			"connection", connectionInfo)
	}

	return nil
}

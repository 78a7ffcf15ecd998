package commands

import (
	"database/sql"

	"github.com/teranos/tabix/am"
	"github.com/teranos/tabix/db"
	"github.com/teranos/tabix/errors"
	"github.com/teranos/tabix/logger"
)

// openDatabase opens and migrates the attestation database.
// If dbPath is empty, it loads the path from am config.
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		path, err := am.GetDatabasePath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get database path")
		}
		dbPath = path
	}

	log := logger.ComponentLogger("db")
	database, err := db.OpenWithMigrations(dbPath, log)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, nil
}

package commands

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/teranos/larder/am"
	"github.com/teranos/larder/catalog"
	"github.com/teranos/larder/db"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/logger"
)

// openDatabase opens and migrates the catalog at dbPath.
// If dbPath is empty, it loads from am config.
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		path, err := am.GetDatabasePath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get database path")
		}
		dbPath = path
	}

	database, err := db.OpenWithMigrations(dbPath, logger.ComponentLogger("db"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, nil
}

// openStore opens the catalog named by the --db flag or the config. Callers
// close the returned database.
func openStore(cmd *cobra.Command) (*catalog.Store, *sql.DB, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	database, err := openDatabase(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewStore(database, logger.ComponentLogger("catalog")), database, nil
}

// loadConfig loads and validates the effective configuration.
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// loadResolver returns a resolver over icons.table_file, or the embedded
// table when the setting is empty or the file is rejected.
func loadResolver(cfg *am.Config) *icon.Resolver {
	path := cfg.Icons.TableFile
	if path == "" {
		return icon.NewResolver(nil)
	}
	table, err := icon.LoadTableFile(path)
	if err != nil {
		logger.Warnw("Icon table rejected, using embedded table",
			logger.FieldFile, path,
			logger.FieldError, err,
		)
		return icon.NewResolver(nil)
	}
	return icon.NewResolver(table)
}

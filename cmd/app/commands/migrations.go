package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var migrationSources = map[string]string{
	"postgres": "file://migrations/postgresql",
	"mysql":    "file://migrations/mysql",
}

// RunMigrations brings the schema for driver up to the newest migration, reading the
// files relative to the working directory. An already current schema is not an error.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	source, ok := migrationSources[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	logger.Info("running database migrations", slog.String("driver", driver), slog.String("source", source))

	m, err := migrate.New(source, migrationURL(driver, connectionString))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema already up to date")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info("migrations completed", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return nil
}

// migrationURL prefixes a go-sql-driver/mysql DSN with the mysql:// scheme migrate
// expects. Postgres connection strings are already URLs.
func migrationURL(driver, connectionString string) string {
	if driver == "mysql" && !strings.Contains(connectionString, "://") {
		return "mysql://" + connectionString
	}
	return connectionString
}

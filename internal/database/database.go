// Package database provides database connection management and utilities.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	// DriverPostgres is the database/sql driver name registered by lib/pq.
	DriverPostgres = "postgres"
	// DriverMySQL is the database/sql driver name registered by go-sql-driver/mysql.
	DriverMySQL = "mysql"

	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect establishes a database connection with the given configuration.
func Connect(cfg Config) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// IsUniqueViolation reports whether err was caused by a unique index on either
// supported driver. Driver error types are checked first, with a message match
// as fallback for wrapped or proxied errors.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry")
}

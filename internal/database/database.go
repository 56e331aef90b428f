// Package database opens the relational store behind the product repository.
package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"catalog/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
	DialectMemory   = "memory"
)

// MemoryURI selects the in-process repository instead of a database.
const MemoryURI = "memory://"

var ErrUnsupportedURI = errors.New("unsupported database uri")

// Dialect infers the store type from a connection string.
func Dialect(uri string) (string, error) {
	switch {
	case uri == MemoryURI:
		return DialectMemory, nil
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"), strings.HasPrefix(uri, "host="):
		return DialectPostgres, nil
	case strings.HasPrefix(uri, "sqlite://"), strings.HasPrefix(uri, "file:"):
		return DialectSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedURI, uri)
}

// Open connects to the database named by uri.
func Open(uri string, debug bool) (*gorm.DB, error) {
	dialect, err := Dialect(uri)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.Open(uri)
	case DialectSQLite:
		dialector = sqlite.Open(strings.TrimPrefix(uri, "sqlite://"))
	default:
		return nil, fmt.Errorf("%w: %s has no SQL connection", ErrUnsupportedURI, dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewLogger(log.New(os.Stdout, "\r\n", log.LstdFlags), debug),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect, err)
	}
	return db, nil
}

// NewLogger returns the GORM logger used by Open. Missing rows are reported to callers as
// errors and are not logged.
func NewLogger(w logger.Writer, debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Migrate creates or updates the products table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

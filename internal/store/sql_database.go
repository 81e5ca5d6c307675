package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/womscp-server/internal/logger"
	"github.com/MKhiriev/womscp-server/migrations"
)

// DB is an open database connection pool together with the error classifier
// of its driver.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewDB wraps an already opened SQLite connection pool.
func NewDB(conn *sql.DB, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             log,
	}
}

// Migrate applies the versioned fleet schema. Unlike CreateSchema it is safe
// to run against a database that already holds the tables.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB, db.logger)
}

// IsRetryable reports whether err is a transient driver failure after which
// the whole operation may be attempted again.
func (db *DB) IsRetryable(err error) bool {
	return db.errorClassificator.Classify(err) == Retryable
}

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// ErrorClassification is the result type returned by [ErrorClassificator.Classify].
// It indicates whether a failed database operation should be retried or
// abandoned.
type ErrorClassification int

const (
	// NonRetryable indicates that the failed operation should not be retried.
	// This is the default classification for unrecognised errors, constraint
	// violations and schema errors.
	NonRetryable ErrorClassification = iota

	// Retryable indicates that the failed operation may succeed if attempted
	// again (e.g. the database file was locked by another process).
	Retryable
)

// SQLiteErrorClassifier implements [ErrorClassificator] for the mattn
// go-sqlite3 driver.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier constructs a [SQLiteErrorClassifier] ready for use.
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify implements [ErrorClassificator].
//
// Retryable codes: SQLITE_BUSY, SQLITE_LOCKED.
// Everything else, including errors that do not come from the driver, is
// [NonRetryable].
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return NonRetryable
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable
	}

	return NonRetryable
}

// schemaError maps a failed DDL batch to ErrSchemaExists when a table is
// already present. SQLite reports that as a generic SQLITE_ERROR, so the
// message narrows it down.
func schemaError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		sqliteErr.Code == sqlite3.ErrError &&
		strings.Contains(sqliteErr.Error(), "already exists") {
		return fmt.Errorf("%w: %w", ErrSchemaExists, err)
	}

	return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
}

// insertError maps a failed seed insert to ErrRowConflict on constraint
// violations.
func insertError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %w", ErrRowConflict, err)
	}

	return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
}

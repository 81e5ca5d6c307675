package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrInvalidLocator is returned when the database locator names no file.
	ErrInvalidLocator = errors.New("invalid database locator")

	// ErrUnsupportedLocator is returned when the locator uses a scheme other
	// than sqlite.
	ErrUnsupportedLocator = errors.New("unsupported database locator")

	// ErrSchemaExists is returned when schema creation hits a table that is
	// already present in the database.
	ErrSchemaExists = errors.New("fleet schema already exists")

	// ErrRowConflict is returned when a seed insert violates a primary or
	// foreign key constraint.
	ErrRowConflict = errors.New("fleet row conflicts with existing data")

	// ErrFleetMismatch is returned when the provisioned row counts differ
	// from the configured topology.
	ErrFleetMismatch = errors.New("provisioned fleet does not match configuration")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL statement fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared (e.g. syntax error or connection issue).
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a DDL or DML
	// statement fails.
	ErrExecutingStatement = errors.New("failed to executing statement")
)

// InsertError reports the seed insert that failed. SensorID is -1 when the
// failing row is the microcontroller itself.
type InsertError struct {
	Table             string
	MicrocontrollerID int
	SensorID          int
	Err               error
}

func (e *InsertError) Error() string {
	if e.SensorID < 0 {
		return fmt.Sprintf("failed to insert into %s, m_id=%d: %v", e.Table, e.MicrocontrollerID, e.Err)
	}

	return fmt.Sprintf("failed to insert into %s, s_id=%d, m_id=%d: %v", e.Table, e.SensorID, e.MicrocontrollerID, e.Err)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}

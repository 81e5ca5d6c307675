package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/womscp-server/internal/logger"
)

const (
	memoryDatabase = ":memory:"

	// every connection enforces foreign keys and waits on locks instead of
	// failing with SQLITE_BUSY right away
	sqliteConnParams = "?_foreign_keys=on&_busy_timeout=5000"
)

// NewConnectSQLite opens the SQLite database named by locator, creating the
// file when it does not exist, and checks the connection.
func NewConnectSQLite(ctx context.Context, locator string, log *logger.Logger) (*DB, error) {
	path, err := ParseLocator(locator)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Str("locator", locator).Msg("error parsing database locator")
		return nil, err
	}

	// db will be in file
	if path != memoryDatabase {
		if err = createLocalDBFileIfNotExists(path); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
			return nil, fmt.Errorf("error creating database file: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+sqliteConnParams)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	// each in-memory connection is a separate database
	if path == memoryDatabase {
		conn.SetMaxOpenConns(1)
	}

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, fmt.Errorf("error connecting database: %w", err)
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("path", path).Msg("connected to database successfully")

	return NewDB(conn, log), nil
}

// ParseLocator extracts the database file path from a locator. Accepted forms
// are "sqlite:path", "sqlite://path" and a bare path; connection options
// after '?' are dropped.
func ParseLocator(locator string) (string, error) {
	path := locator
	switch {
	case strings.HasPrefix(path, "sqlite://"):
		path = strings.TrimPrefix(path, "sqlite://")
	case strings.HasPrefix(path, "sqlite:"):
		path = strings.TrimPrefix(path, "sqlite:")
	case strings.Contains(path, "://"):
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocator, locator)
	}

	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	if path == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
	}

	return path, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}

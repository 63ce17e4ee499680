package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"

	_ "modernc.org/sqlite"
)

// queryAttempts bounds how many times a query is tried before the failure
// is surfaced to the caller.
const queryAttempts = 3

// DB wraps the revision-history store. The mirror is read-only from the
// pipeline's point of view; writes happen only when loading a local sqlite
// mirror and in tests.
type DB struct {
	driverName string
	dsn        string
	conn       *sql.DB
}

// Open connects to the history store. An empty driver name defaults to
// sqlite, in which case the mirror schema is created on first use. Other
// drivers (a replica DSN) are opened as-is.
func Open(driverName, dsn string) (*DB, error) {
	if driverName == "" {
		driverName = "sqlite"
	}
	conn, err := connect(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{driverName: driverName, dsn: dsn, conn: conn}, nil
}

func connect(driverName, dsn string) (*sql.DB, error) {
	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if driverName == "sqlite" {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting journal mode: %w", err)
		}
		if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
		if err := migrate(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrating schema: %w", err)
		}
	}

	return conn, nil
}

// Close closes the store connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Reconnect drops the current handle and establishes a fresh one.
func (db *DB) Reconnect() error {
	if db.conn != nil {
		db.conn.Close()
	}
	conn, err := connect(db.driverName, db.dsn)
	if err != nil {
		return fmt.Errorf("reconnecting: %w", err)
	}
	db.conn = conn
	return nil
}

// withRetry runs fn up to queryAttempts times, reconnecting after each
// transient connection failure. Non-transient errors (bad SQL, constraint
// violations) propagate immediately.
func (db *DB) withRetry(fn func(conn *sql.DB) error) error {
	var err error
	for attempt := 1; attempt <= queryAttempts; attempt++ {
		err = fn(db.conn)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		log.Printf("transient database error (attempt %d/%d): %v", attempt, queryAttempts, err)
		if rerr := db.Reconnect(); rerr != nil {
			log.Printf("reconnect failed: %v", rerr)
		}
	}
	return fmt.Errorf("query attempts exhausted: %w", err)
}

// isTransient reports whether an error looks like a lost or gone
// connection rather than a problem with the query itself.
func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"server has gone away",
		"lost connection",
		"bad connection",
		"database is locked",
		"database table is locked",
	} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

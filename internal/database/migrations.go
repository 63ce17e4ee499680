package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations for a local
// sqlite mirror. The tables follow the MediaWiki page/revision layout so
// queries work unchanged against a real replica.
var migrations = []Migration{
	{
		Version:     1,
		Description: "page and revision mirror tables",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS page (
    page_id INTEGER PRIMARY KEY,
    page_namespace INTEGER NOT NULL DEFAULT 0,
    page_title TEXT NOT NULL,
    page_latest INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_page_ns_title ON page(page_namespace, page_title);

CREATE TABLE IF NOT EXISTS revision (
    rev_id INTEGER PRIMARY KEY,
    rev_page INTEGER NOT NULL REFERENCES page(page_id),
    rev_timestamp TEXT NOT NULL,
    rev_sha1 TEXT
);

CREATE INDEX IF NOT EXISTS idx_revision_page_time ON revision(rev_page, rev_timestamp);
`)
			return err
		},
	},
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}

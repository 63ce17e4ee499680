package database

import "database/sql"

// PageLatest returns the talk page id and the latest revision ids of both
// an article and its talk page, joined on the shared title across
// namespaces 0 and 1. Returns nil when the page or its talk page does not
// exist.
func (db *DB) PageLatest(pageID int64) (*PageLatest, error) {
	var result *PageLatest
	err := db.withRetry(func(conn *sql.DB) error {
		result = nil
		row := conn.QueryRow(`
SELECT ap.page_id, tp.page_id, ap.page_latest, tp.page_latest
FROM page ap
JOIN page tp ON ap.page_title = tp.page_title
WHERE ap.page_id = ?
AND ap.page_namespace = 0
AND tp.page_namespace = 1`, pageID)

		var latest PageLatest
		if err := row.Scan(&latest.ArticleID, &latest.TalkPageID,
			&latest.ArticleLatest, &latest.TalkLatest); err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		result = &latest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TalkRevisionsBefore lists all revisions of a talk page with a timestamp
// strictly earlier than the given article revision's, newest first.
func (db *DB) TalkRevisionsBefore(talkPageID, articleRevID int64) ([]*TalkRevision, error) {
	var revs []*TalkRevision
	err := db.withRetry(func(conn *sql.DB) error {
		revs = nil
		rows, err := conn.Query(`
SELECT rev_id, rev_timestamp
FROM revision
WHERE rev_page = ?
AND rev_timestamp < (SELECT rev_timestamp FROM revision WHERE rev_id = ?)
ORDER BY rev_timestamp DESC`, talkPageID, articleRevID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rev TalkRevision
			if err := rows.Scan(&rev.ID, &rev.Timestamp); err != nil {
				return err
			}
			revs = append(revs, &rev)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return revs, nil
}

// ArticleRevisionBefore returns the most recent revision of a page with a
// timestamp strictly earlier than the given talk revision's, or 0 when
// none exists.
func (db *DB) ArticleRevisionBefore(pageID, talkRevID int64) (int64, error) {
	return db.adjacentRevision(`
SELECT rev_id
FROM revision
WHERE rev_page = ?
AND rev_timestamp < (SELECT rev_timestamp FROM revision WHERE rev_id = ?)
ORDER BY rev_timestamp DESC
LIMIT 1`, pageID, talkRevID)
}

// ArticleRevisionAfter returns the first revision of a page with a
// timestamp strictly later than the given talk revision's, or 0 when none
// exists.
func (db *DB) ArticleRevisionAfter(pageID, talkRevID int64) (int64, error) {
	return db.adjacentRevision(`
SELECT rev_id
FROM revision
WHERE rev_page = ?
AND rev_timestamp > (SELECT rev_timestamp FROM revision WHERE rev_id = ?)
ORDER BY rev_timestamp ASC
LIMIT 1`, pageID, talkRevID)
}

func (db *DB) adjacentRevision(query string, pageID, talkRevID int64) (int64, error) {
	var revID int64
	err := db.withRetry(func(conn *sql.DB) error {
		revID = 0
		err := conn.QueryRow(query, pageID, talkRevID).Scan(&revID)
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	return revID, nil
}

// RevisionMeta returns the page id and timestamp of a revision, or nil
// when the revision is not in the mirror.
func (db *DB) RevisionMeta(revID int64) (*RevisionMeta, error) {
	var result *RevisionMeta
	err := db.withRetry(func(conn *sql.DB) error {
		result = nil
		var meta RevisionMeta
		err := conn.QueryRow(`
SELECT rev_page, rev_timestamp
FROM revision
WHERE rev_id = ?`, revID).Scan(&meta.PageID, &meta.Timestamp)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		result = &meta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ChecksumsBefore returns up to limit content checksums of revisions on a
// page strictly before the given timestamp, most recent first.
func (db *DB) ChecksumsBefore(pageID int64, timestamp string, limit int) ([]string, error) {
	return db.checksums(`
SELECT rev_sha1
FROM revision
WHERE rev_page = ?
AND rev_timestamp < ?
ORDER BY rev_timestamp DESC
LIMIT ?`, pageID, timestamp, limit)
}

// ChecksumsAfter returns up to limit content checksums of revisions on a
// page strictly after the given timestamp, in ascending time order.
func (db *DB) ChecksumsAfter(pageID int64, timestamp string, limit int) ([]string, error) {
	return db.checksums(`
SELECT rev_sha1
FROM revision
WHERE rev_page = ?
AND rev_timestamp > ?
ORDER BY rev_timestamp ASC
LIMIT ?`, pageID, timestamp, limit)
}

func (db *DB) checksums(query string, pageID int64, timestamp string, limit int) ([]string, error) {
	var sums []string
	err := db.withRetry(func(conn *sql.DB) error {
		sums = nil
		rows, err := conn.Query(query, pageID, timestamp, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var sum sql.NullString
			if err := rows.Scan(&sum); err != nil {
				return err
			}
			if sum.Valid {
				sums = append(sums, sum.String)
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return sums, nil
}

// Stats counts pages and revisions in the mirror.
func (db *DB) Stats() (*Stats, error) {
	var stats Stats
	err := db.withRetry(func(conn *sql.DB) error {
		stats = Stats{}
		if err := conn.QueryRow(
			`SELECT COUNT(*) FROM page WHERE page_namespace = 0`).Scan(&stats.ArticlePages); err != nil {
			return err
		}
		if err := conn.QueryRow(
			`SELECT COUNT(*) FROM page WHERE page_namespace = 1`).Scan(&stats.TalkPages); err != nil {
			return err
		}
		return conn.QueryRow(`SELECT COUNT(*) FROM revision`).Scan(&stats.Revisions)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// InsertPage adds a page to a local mirror. Used when loading dump slices
// and by tests.
func (db *DB) InsertPage(pageID int64, namespace int, title string, latest int64) error {
	return db.withRetry(func(conn *sql.DB) error {
		_, err := conn.Exec(`
INSERT INTO page (page_id, page_namespace, page_title, page_latest)
VALUES (?, ?, ?, ?)`, pageID, namespace, title, latest)
		return err
	})
}

// InsertRevision adds a revision to a local mirror.
func (db *DB) InsertRevision(revID, pageID int64, timestamp, sha1 string) error {
	return db.withRetry(func(conn *sql.DB) error {
		_, err := conn.Exec(`
INSERT INTO revision (rev_id, rev_page, rev_timestamp, rev_sha1)
VALUES (?, ?, ?, ?)`, revID, pageID, timestamp, sha1)
		return err
	})
}

package database

// TalkRevision is one talk-page revision candidate during the backward
// walk. Content stays nil until fetched from the API, and remains nil for
// revisions whose text was deleted or suppressed.
type TalkRevision struct {
	ID        int64
	Timestamp string // MediaWiki 14-character timestamp (YYYYMMDDHHMMSS)
	Content   *string
}

// PageLatest holds the current state of an article and its talk page.
type PageLatest struct {
	ArticleID     int64
	TalkPageID    int64
	ArticleLatest int64
	TalkLatest    int64
}

// RevisionMeta locates a single revision in page history.
type RevisionMeta struct {
	PageID    int64
	Timestamp string
}

// Stats summarizes the history mirror for the status command.
type Stats struct {
	ArticlePages int64
	TalkPages    int64
	Revisions    int64
}

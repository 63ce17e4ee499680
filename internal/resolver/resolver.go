// Package resolver finds the talk-page revision at which an article's
// quality class was first assigned, walking revision history backward from
// the present and re-anchoring the article revision to that point.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nettrom/wikihist/internal/assessment"
	"github.com/nettrom/wikihist/internal/database"
	"github.com/nettrom/wikihist/internal/dataset"
	"github.com/nettrom/wikihist/internal/revert"
)

const (
	// DefaultBatchSize is how many talk revisions are inspected per
	// content fetch.
	DefaultBatchSize = 20
	// DefaultMaxContentBytes caps how much of a revision is parsed.
	// Assessment banners sit at the top of the page, so anything beyond
	// the first 8 KiB is noise.
	DefaultMaxContentBytes = 8 * 1024
)

// ErrUnknownClass marks a record whose training label is not on the
// assessment scale. Fatal for that record.
var ErrUnknownClass = errors.New("quality class not on the assessment scale")

// ErrUnknownPage marks a record whose page id has no article/talk pair in
// the history store.
var ErrUnknownPage = errors.New("page not found in history store")

// ErrNoArticleRevision reports that no article revision exists on either
// side of the boundary talk revision.
var ErrNoArticleRevision = errors.New("no article revision found around the boundary")

// Outcome describes how a record's resolution ended.
type Outcome int

const (
	// OutcomeUnchanged means the record already pointed at the earliest
	// state consistent with its class; nothing was re-anchored.
	OutcomeUnchanged Outcome = iota
	// OutcomeResolved means a boundary talk revision was found and the
	// record's revision ids now point at it.
	OutcomeResolved
)

// HistoryStore is the subset of the history mirror the resolver reads.
type HistoryStore interface {
	PageLatest(pageID int64) (*database.PageLatest, error)
	TalkRevisionsBefore(talkPageID, articleRevID int64) ([]*database.TalkRevision, error)
	ArticleRevisionBefore(pageID, talkRevID int64) (int64, error)
	ArticleRevisionAfter(pageID, talkRevID int64) (int64, error)
}

// ContentSource fills talk revision content in batches.
type ContentSource interface {
	FetchContent(ctx context.Context, revs []*database.TalkRevision) ([]*database.TalkRevision, error)
}

// RevertChecker reports whether a revision's change was undone shortly
// afterward.
type RevertChecker interface {
	IsReverted(revID int64) (bool, error)
}

// Resolver walks talk-page history backward to find where a quality class
// was first assigned.
type Resolver struct {
	store           HistoryStore
	source          ContentSource
	reverts         RevertChecker
	batchSize       int
	maxContentBytes int
}

// New builds a resolver. batchSize and maxContentBytes 0 mean the
// defaults.
func New(store HistoryStore, source ContentSource, reverts RevertChecker, batchSize, maxContentBytes int) *Resolver {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxContentBytes <= 0 {
		maxContentBytes = DefaultMaxContentBytes
	}
	return &Resolver{
		store:           store,
		source:          source,
		reverts:         reverts,
		batchSize:       batchSize,
		maxContentBytes: maxContentBytes,
	}
}

// Resolve finds the earliest talk-page revision still carrying the
// record's quality class and re-anchors the record's revision ids to it.
// The record is mutated in place; on error it keeps whatever values were
// filled in before the failure.
func (r *Resolver) Resolve(ctx context.Context, rec *dataset.ArticleRecord) (Outcome, error) {
	target, ok := assessment.ClassIndex(rec.Class)
	if !ok {
		return OutcomeUnchanged, fmt.Errorf("class %q: %w", rec.Class, ErrUnknownClass)
	}

	latest, err := r.store.PageLatest(rec.PageID)
	if err != nil {
		return OutcomeUnchanged, fmt.Errorf("latest revisions for page %d: %w", rec.PageID, err)
	}
	if latest == nil {
		return OutcomeUnchanged, fmt.Errorf("page %d: %w", rec.PageID, ErrUnknownPage)
	}
	rec.RevisionID = latest.ArticleLatest
	rec.TalkPageID = latest.TalkPageID
	rec.TalkRevisionID = latest.TalkLatest

	talkRevs, err := r.store.TalkRevisionsBefore(latest.TalkPageID, latest.ArticleLatest)
	if err != nil {
		return OutcomeUnchanged, fmt.Errorf("talk revisions for page %d: %w", rec.PageID, err)
	}
	if len(talkRevs) == 0 {
		// The current data already reflects the earliest state.
		return OutcomeUnchanged, nil
	}

	boundary, err := r.findBoundary(ctx, target, talkRevs)
	if err != nil {
		return OutcomeUnchanged, err
	}
	if boundary == 0 {
		// No confirmation of the class anywhere in earlier history: the
		// original values stand.
		return OutcomeUnchanged, nil
	}

	rec.TalkRevisionID = boundary
	revID, err := r.store.ArticleRevisionBefore(rec.PageID, boundary)
	if err != nil {
		return OutcomeUnchanged, fmt.Errorf("article revision before boundary %d: %w", boundary, err)
	}
	if revID == 0 {
		// The talk page was likely created just before the article
		// itself; take the first article revision after the boundary.
		log.Printf("no article revision before talk revision %d for page %d, picking first after",
			boundary, rec.PageID)
		revID, err = r.store.ArticleRevisionAfter(rec.PageID, boundary)
		if err != nil {
			return OutcomeUnchanged, fmt.Errorf("article revision after boundary %d: %w", boundary, err)
		}
	}
	if revID == 0 {
		return OutcomeUnchanged, fmt.Errorf("page %d, talk revision %d: %w",
			rec.PageID, boundary, ErrNoArticleRevision)
	}
	rec.RevisionID = revID
	return OutcomeResolved, nil
}

// findBoundary walks the talk revisions (newest first) in batches and
// returns the id of the earliest revision still carrying the target
// class, or 0 when no revision confirmed it. The walk stops at the first
// honest divergence: a revision whose highest class differs from the
// target, or an unreverted revision with no assessment at all.
func (r *Resolver) findBoundary(ctx context.Context, target int, talkRevs []*database.TalkRevision) (int64, error) {
	var boundary int64
	for start := 0; start < len(talkRevs); start += r.batchSize {
		end := start + r.batchSize
		if end > len(talkRevs) {
			end = len(talkRevs)
		}
		batch := talkRevs[start:end]
		if _, err := r.source.FetchContent(ctx, batch); err != nil {
			return 0, fmt.Errorf("fetching talk revision content: %w", err)
		}

		for _, rev := range batch {
			if rev.Content == nil {
				// Deleted or suppressed; carries no signal.
				continue
			}
			content := *rev.Content
			if len(content) > r.maxContentBytes {
				content = content[:r.maxContentBytes]
			}

			found, ok := assessment.HighestClass(assessment.Parse(content))
			if !ok {
				reverted, err := r.reverts.IsReverted(rev.ID)
				if errors.Is(err, revert.ErrUnknownRevision) {
					// Cannot tell either way; keep scanning.
					continue
				}
				if err != nil {
					return 0, fmt.Errorf("revert check for revision %d: %w", rev.ID, err)
				}
				if reverted {
					// Undone shortly after: noise, keep scanning.
					continue
				}
				// An honest state with no assessment: whatever matched
				// after it is the boundary.
				return boundary, nil
			}

			if found == target {
				// A more recent confirmation of the same class. Keep
				// scanning for the earliest one.
				boundary = rev.ID
				continue
			}
			// The class changed at this revision.
			return boundary, nil
		}
	}
	return boundary, nil
}

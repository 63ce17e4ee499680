package revert

import (
	"errors"
	"fmt"

	"github.com/nettrom/wikihist/internal/database"
)

// DefaultRadius bounds how many edits before and after the pivot revision
// are inspected for a returning content checksum.
const DefaultRadius = 15

// ErrUnknownRevision reports that the pivot revision is not in the history
// store, so the check carries no signal either way and callers must not
// base a decision on it.
var ErrUnknownRevision = errors.New("revision not found in history store")

// Detector answers whether an edit was undone shortly after it was made.
type Detector struct {
	db     *database.DB
	radius int
}

// NewDetector wires the history store; radius 0 means DefaultRadius.
func NewDetector(db *database.DB, radius int) *Detector {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Detector{db: db, radius: radius}
}

// IsReverted reports whether the page's content returned to a state from
// before the given revision within the next radius edits, i.e. whether a
// checksum from the future window also appears in the past window.
func (d *Detector) IsReverted(revID int64) (bool, error) {
	meta, err := d.db.RevisionMeta(revID)
	if err != nil {
		return false, fmt.Errorf("revision meta for %d: %w", revID, err)
	}
	if meta == nil {
		return false, ErrUnknownRevision
	}

	past, err := d.db.ChecksumsBefore(meta.PageID, meta.Timestamp, d.radius)
	if err != nil {
		return false, fmt.Errorf("past checksums for revision %d: %w", revID, err)
	}
	future, err := d.db.ChecksumsAfter(meta.PageID, meta.Timestamp, d.radius)
	if err != nil {
		return false, fmt.Errorf("future checksums for revision %d: %w", revID, err)
	}

	seen := make(map[string]struct{}, len(past))
	for _, sum := range past {
		seen[sum] = struct{}{}
	}
	for _, sum := range future {
		if _, ok := seen[sum]; ok {
			return true, nil
		}
	}
	return false, nil
}

package pipeline

import (
	"context"
	"log"

	"github.com/nettrom/wikihist/internal/dataset"
	"github.com/nettrom/wikihist/internal/resolver"
)

// progressInterval controls how often a progress line is logged.
const progressInterval = 500

// RecordResolver resolves one article record in place.
type RecordResolver interface {
	Resolve(ctx context.Context, rec *dataset.ArticleRecord) (resolver.Outcome, error)
}

// Result tallies one pipeline run.
type Result struct {
	Total     int
	Resolved  int
	Unchanged int
	Failed    int
}

// Pipeline reads a raw training set, resolves every record, and writes
// the cleaned set incrementally in input order. One record's failure
// never stops the run.
type Pipeline struct {
	resolver RecordResolver
}

// New builds a pipeline around a record resolver.
func New(res RecordResolver) *Pipeline {
	return &Pipeline{resolver: res}
}

// Run processes the dataset at inputPath and writes the cleaned rows to
// outputPath. Records that fail to resolve are logged, counted, and
// written with whatever values they hold.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	records, err := dataset.ReadRecords(inputPath)
	if err != nil {
		return nil, err
	}
	log.Printf("got dataset with %d articles", len(records))

	out, err := dataset.NewWriter(outputPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	result := &Result{Total: len(records)}
	for i, rec := range records {
		outcome, err := p.resolver.Resolve(ctx, rec)
		switch {
		case err != nil:
			log.Printf("failed to resolve page %d: %v", rec.PageID, err)
			result.Failed++
		case outcome == resolver.OutcomeResolved:
			result.Resolved++
		default:
			result.Unchanged++
		}

		if err := out.WriteRecord(rec); err != nil {
			return result, err
		}

		if (i+1)%progressInterval == 0 {
			log.Printf("written %d articles to %s", i+1, outputPath)
		}
	}

	log.Printf("done: %d records, %d resolved, %d unchanged, %d failed",
		result.Total, result.Resolved, result.Unchanged, result.Failed)
	return result, nil
}

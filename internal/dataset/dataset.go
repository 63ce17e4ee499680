package dataset

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// Header is the column header of a cleaned dataset.
const Header = "pageid\trevid\ttalkpageid\ttalkpagerevid\tclass"

// ArticleRecord is one row of the training set. Ids are 0 until resolved;
// unresolved ids are written out as empty fields.
type ArticleRecord struct {
	PageID         int64
	RevisionID     int64
	TalkPageID     int64
	TalkRevisionID int64
	Class          string
}

// ReadRecords loads a raw training set: a header line followed by
// whitespace-separated rows with the quality class in the first column and
// the page id in the second. Extra columns are ignored; malformed rows are
// skipped with a log line.
func ReadRecords(path string) ([]*ArticleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var records []*ArticleRecord
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			continue
		}
		if line == "" {
			continue
		}
		cols := strings.Fields(line)
		if len(cols) < 2 {
			log.Printf("skipping malformed dataset row: %q", line)
			continue
		}
		pageID, err := strconv.ParseInt(cols[1], 10, 64)
		if err != nil {
			log.Printf("skipping row with bad page id %q: %v", cols[1], err)
			continue
		}
		records = append(records, &ArticleRecord{PageID: pageID, Class: cols[0]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return records, nil
}

// ReadCleaned loads a cleaned dataset written by Writer. Empty id fields
// come back as 0.
func ReadCleaned(path string) ([]*ArticleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var records []*ArticleRecord
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 5 {
			log.Printf("skipping malformed cleaned row: %q", line)
			continue
		}
		records = append(records, &ArticleRecord{
			PageID:         parseID(cols[0]),
			RevisionID:     parseID(cols[1]),
			TalkPageID:     parseID(cols[2]),
			TalkRevisionID: parseID(cols[3]),
			Class:          cols[4],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return records, nil
}

// Writer writes cleaned records as tab-separated rows. Writes go straight
// through to the file, so an interrupted run keeps every row written so
// far.
type Writer struct {
	f *os.File
}

// NewWriter creates the output file and writes the header row.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	if _, err := fmt.Fprintln(f, Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return &Writer{f: f}, nil
}

// WriteRecord appends one record as a TSV row.
func (w *Writer) WriteRecord(rec *ArticleRecord) error {
	row := strings.Join([]string{
		formatID(rec.PageID),
		formatID(rec.RevisionID),
		formatID(rec.TalkPageID),
		formatID(rec.TalkRevisionID),
		rec.Class,
	}, "\t")
	if _, err := fmt.Fprintln(w.f, row); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// Close closes the output file.
func (w *Writer) Close() error {
	return w.f.Close()
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func parseID(field string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

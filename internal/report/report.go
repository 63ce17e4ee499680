// Package report summarizes a cleaned dataset as markdown and renders it
// to HTML for operators.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/nettrom/wikihist/internal/dataset"
)

var md = goldmark.New()

// Build produces a markdown summary of a cleaned dataset: row counts,
// resolution tallies, and the class distribution.
func Build(records []*dataset.ArticleRecord) string {
	classes := make(map[string]int)
	resolved := 0
	incomplete := 0
	for _, rec := range records {
		classes[strings.ToLower(rec.Class)]++
		if rec.RevisionID != 0 && rec.TalkRevisionID != 0 {
			resolved++
		} else {
			incomplete++
		}
	}

	var b strings.Builder
	b.WriteString("# Cleaned training set\n\n")
	fmt.Fprintf(&b, "%d records: %d with resolved revision ids, %d incomplete.\n\n",
		len(records), resolved, incomplete)

	b.WriteString("## Class distribution\n\n")
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "- **%s**: %d\n", name, classes[name])
	}
	return b.String()
}

// RenderHTML converts the markdown summary into a standalone HTML page.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>wikihist report</title></head><body>\n")
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	buf.WriteString("</body></html>\n")
	return buf.String(), nil
}

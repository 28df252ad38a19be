package explore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/store"
	"github.com/praetorian-inc/aitags/pkg/types"
)

// contextLines is how many lines of source surround a finding's line in
// the details pane.
const contextLines = 3

// exploreData holds all loaded data for the TUI.
type exploreData struct {
	store    store.Store
	scan     *store.ScanRun
	findings []*findingRow
}

// loadData opens a results database and loads all findings with their
// surrounding source. The same checks as the report command apply.
func loadData(storePath string) (*exploreData, error) {
	if storePath == ":memory:" {
		return nil, fmt.Errorf("cannot explore an in-memory store")
	}
	if _, err := os.Stat(storePath); err != nil {
		return nil, fmt.Errorf("datastore not found: %s", storePath)
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	findings, err := s.GetAllFindings()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("retrieving findings: %w", err)
	}
	scan, err := s.LatestScan()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("retrieving scan: %w", err)
	}

	return &exploreData{
		store:    s,
		scan:     scan,
		findings: buildFindingRows(findings, document.Open),
	}, nil
}

// openFunc opens a document for snippet extraction.
type openFunc func(path string) (*document.TextDocument, error)

// buildFindingRows converts stored findings into view rows. Each file is
// opened once; files that can no longer be read get rows without source.
func buildFindingRows(findings []*types.Finding, open openFunc) []*findingRow {
	docs := make(map[string]*document.TextDocument)
	rows := make([]*findingRow, 0, len(findings))
	for _, f := range findings {
		doc, seen := docs[f.Path]
		if !seen {
			if opened, err := open(f.Path); err == nil {
				doc = opened
			}
			docs[f.Path] = doc
		}
		rows = append(rows, buildFindingRow(f, doc))
	}
	return rows
}

// buildFindingRow creates a findingRow from a Finding. doc may be nil.
func buildFindingRow(f *types.Finding, doc *document.TextDocument) *findingRow {
	row := &findingRow{
		FindingID: f.ID,
		Kind:      f.Kind,
		Path:      f.Path,
		Dir:       filepath.Dir(f.Path),
		Message:   f.Message,
		Problem:   problemClass(f),
		Span:      f.Span,
	}
	if doc != nil {
		row.Snippet = extractSnippet(doc, f.Span.Line)
	}
	return row
}

// extractSnippet returns the lines around line, clamped to the document.
func extractSnippet(doc *document.TextDocument, line int) snippet {
	first := max(0, line-contextLines)
	last := min(doc.LineCount()-1, line+contextLines)

	sn := snippet{FirstLine: first}
	for i := first; i <= last; i++ {
		sn.Lines = append(sn.Lines, doc.Line(i))
	}
	return sn
}

// problemClass groups finding messages into a small set of values for the
// Problem facet. Messages carrying a path or symbol name collapse to their
// fixed prefix.
func problemClass(f *types.Finding) string {
	msg := strings.TrimSpace(strings.TrimPrefix(f.Message, f.Kind.Key()))
	switch {
	case strings.HasPrefix(msg, "expired on"):
		return "expired"
	case strings.HasPrefix(msg, "format invalid"):
		return "invalid date"
	}
	if i := strings.Index(msg, ":"); i > 0 {
		return msg[:i]
	}
	return msg
}

// close closes the underlying store.
func (d *exploreData) close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

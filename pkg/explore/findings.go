package explore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sortField defines which column to sort by.
type sortField int

const (
	sortByLocation sortField = iota
	sortByKind
	sortByProblem
	sortByMessage
	sortFieldCount // sentinel
)

var sortFieldNames = [sortFieldCount]string{
	"Location", "Tag", "Problem", "Message",
}

// findingsPane is the top-right findings table.
type findingsPane struct {
	listCursor
	rows    []*findingRow // filtered rows
	allRows []*findingRow // all rows (unfiltered)
	width   int
	height  int
	focused bool
	sortBy  sortField
	sortAsc bool
}

func newFindingsPane(rows []*findingRow) findingsPane {
	fp := findingsPane{
		allRows: rows,
		rows:    append([]*findingRow(nil), rows...),
		sortAsc: true,
	}
	fp.sort()
	return fp
}

func (fp *findingsPane) setFilteredRows(rows []*findingRow) {
	fp.rows = append([]*findingRow(nil), rows...)
	fp.sort()
	fp.clamp(len(fp.rows), fp.visibleRows())
}

func (fp findingsPane) selectedFinding() *findingRow {
	if fp.cursor < 0 || fp.cursor >= len(fp.rows) {
		return nil
	}
	return fp.rows[fp.cursor]
}

func (fp findingsPane) Update(msg tea.Msg) (findingsPane, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !fp.focused || !ok {
		return fp, nil
	}

	if fp.navigate(keyMsg, len(fp.rows), fp.visibleRows()) {
		return fp, nil
	}
	switch {
	case key.Matches(keyMsg, defaultKeys.SortNext):
		fp.sortBy = (fp.sortBy + 1) % sortFieldCount
		fp.sort()
	case key.Matches(keyMsg, defaultKeys.SortReverse):
		fp.sortAsc = !fp.sortAsc
		fp.sort()
	}
	return fp, nil
}

// sort orders rows by the current field. Ties fall back to location so the
// order is stable across re-sorts.
func (fp *findingsPane) sort() {
	var key func(r *findingRow) string
	switch fp.sortBy {
	case sortByKind:
		key = func(r *findingRow) string { return string(r.Kind) }
	case sortByProblem:
		key = func(r *findingRow) string { return r.Problem }
	case sortByMessage:
		key = func(r *findingRow) string { return r.Message }
	default:
		key = func(*findingRow) string { return "" }
	}

	sort.SliceStable(fp.rows, func(i, j int) bool {
		a, b := fp.rows[i], fp.rows[j]
		if ka, kb := key(a), key(b); ka != kb {
			return (ka < kb) == fp.sortAsc
		}
		if locationLess(a, b) {
			return fp.sortAsc
		}
		if locationLess(b, a) {
			return !fp.sortAsc
		}
		return false
	})
}

func locationLess(a, b *findingRow) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	if a.Span.Line != b.Span.Line {
		return a.Span.Line < b.Span.Line
	}
	return a.Span.StartChar < b.Span.StartChar
}

func (fp findingsPane) View() string {
	if fp.width <= 0 || fp.height <= 0 {
		return ""
	}

	contentWidth := fp.width - 4 // borders
	colKind := 8
	colLine := 7
	colPath := min(40, contentWidth/3)
	colMessage := max(10, contentWidth-colPath-colLine-colKind-4)

	var b strings.Builder

	sortIndicator := func(f sortField) string {
		if fp.sortBy == f {
			if fp.sortAsc {
				return " ^"
			}
			return " v"
		}
		return ""
	}

	header := fmt.Sprintf(" %-*s %*s %-*s %-*s",
		colPath, "File"+sortIndicator(sortByLocation),
		colLine, "Line",
		colKind, "Tag"+sortIndicator(sortByKind),
		colMessage, "Message"+sortIndicator(sortByMessage)+sortIndicator(sortByProblem),
	)
	b.WriteString(headerRowStyle.Width(contentWidth).Render(truncateString(header, contentWidth)))
	b.WriteString("\n")

	b.WriteString(strings.Repeat("─", contentWidth))
	b.WriteString("\n")

	start, visibleEnd := fp.window(len(fp.rows), fp.visibleRows())
	for i := start; i < visibleEnd; i++ {
		row := fp.rows[i]

		kind := renderKind(row.Kind)
		line := fmt.Sprintf(" %-*s %*d %s%s %-*s",
			colPath, truncateLeft(row.Path, colPath),
			colLine, row.Span.Line+1,
			kind, strings.Repeat(" ", max(0, colKind-lipgloss.Width(kind))),
			colMessage, truncateString(row.Message, colMessage),
		)

		if i == fp.cursor && fp.focused {
			line = selectedRowStyle.Width(contentWidth).Render(stripAnsi(line))
		}

		b.WriteString(padRight(line, contentWidth))
		if i < visibleEnd-1 {
			b.WriteString("\n")
		}
	}

	for i := visibleEnd - start; i < fp.visibleRows(); i++ {
		b.WriteString(strings.Repeat(" ", contentWidth))
		if i < fp.visibleRows()-1 {
			b.WriteString("\n")
		}
	}

	title := fmt.Sprintf(" Findings (%d/%d) [sort: %s] ", len(fp.rows), len(fp.allRows), sortFieldNames[fp.sortBy])
	return framePane(title, b.String(), fp.width, fp.height, fp.focused)
}

func (fp findingsPane) visibleRows() int {
	return max(1, fp.height-6) // title + border + header + separator
}

func (fp *findingsPane) setSize(w, h int) {
	fp.width = w
	fp.height = h
}

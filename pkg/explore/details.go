package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// detailsPane shows the selected finding and the source around it.
type detailsPane struct {
	finding *findingRow
	width   int
	height  int
	offset  int // scroll offset for content
	focused bool
}

func newDetailsPane() detailsPane {
	return detailsPane{}
}

func (dp *detailsPane) setFinding(f *findingRow) {
	dp.finding = f
	dp.offset = 0
}

func (dp detailsPane) Update(msg tea.Msg) (detailsPane, tea.Cmd) {
	if !dp.focused {
		return dp, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return dp, nil
	}
	switch {
	case key.Matches(keyMsg, defaultKeys.Up):
		dp.offset = max(0, dp.offset-1)
	case key.Matches(keyMsg, defaultKeys.Down):
		dp.offset++
	case key.Matches(keyMsg, defaultKeys.Home):
		dp.offset = 0
	case key.Matches(keyMsg, defaultKeys.PageDown):
		dp.offset += dp.visibleRows()
	case key.Matches(keyMsg, defaultKeys.PageUp):
		dp.offset = max(0, dp.offset-dp.visibleRows())
	}

	return dp, nil
}

func (dp detailsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}

	contentWidth := dp.width - 4

	var lines []string
	if dp.finding == nil {
		lines = append(lines, "  No finding selected")
	} else {
		lines = renderFindingDetails(dp.finding, contentWidth)
	}

	if dp.offset >= len(lines) {
		dp.offset = max(0, len(lines)-1)
	}
	visibleLines := lines[dp.offset:]
	if len(visibleLines) > dp.visibleRows() {
		visibleLines = visibleLines[:dp.visibleRows()]
	}

	var b strings.Builder
	for i, line := range visibleLines {
		b.WriteString(padRight(line, contentWidth))
		if i < len(visibleLines)-1 {
			b.WriteString("\n")
		}
	}
	for i := len(visibleLines); i < dp.visibleRows(); i++ {
		b.WriteString(strings.Repeat(" ", contentWidth))
		if i < dp.visibleRows()-1 {
			b.WriteString("\n")
		}
	}

	return framePane(" Details ", b.String(), dp.width, dp.height, dp.focused)
}

// renderFindingDetails renders the fields of a finding followed by its
// source snippet. The tag's line is highlighted.
func renderFindingDetails(f *findingRow, maxWidth int) []string {
	field := func(label, value string) string {
		return fmt.Sprintf("  %s %s",
			fieldLabelStyle.Render(label),
			fieldValueStyle.Render(truncateString(value, max(0, maxWidth-len(label)-3))))
	}

	start, end := f.Span.SourcePoints()
	lines := []string{
		fmt.Sprintf("  %s %s", fieldLabelStyle.Render("Tag:"), renderKind(f.Kind)),
		field("File:", f.Path),
		field("Location:", fmt.Sprintf("%d:%d - %d:%d", start.Line, start.Column, end.Line, end.Column)),
		field("Message:", f.Message),
		field("Problem:", f.Problem),
		field("ID:", f.FindingID),
		"",
		fmt.Sprintf("  %s", fieldLabelStyle.Render("Source:")),
	}

	if len(f.Snippet.Lines) == 0 {
		return append(lines, "    "+snippetContextStyle.Render("(file not readable)"))
	}

	last := f.Snippet.FirstLine + len(f.Snippet.Lines)
	numWidth := len(fmt.Sprint(last))
	textWidth := max(0, maxWidth-numWidth-7)
	for i, text := range f.Snippet.Lines {
		lineNo := f.Snippet.FirstLine + i
		number := lineNumberStyle.Render(fmt.Sprintf("%*d", numWidth, lineNo+1))
		text = truncateString(strings.ReplaceAll(text, "\t", "    "), textWidth)
		if lineNo == f.Span.Line {
			lines = append(lines, fmt.Sprintf("  > %s %s", number, snippetMatchStyle.Render(text)))
		} else {
			lines = append(lines, fmt.Sprintf("    %s %s", number, snippetContextStyle.Render(text)))
		}
	}
	return lines
}

func (dp detailsPane) visibleRows() int {
	return max(1, dp.height-4)
}

func (dp *detailsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}

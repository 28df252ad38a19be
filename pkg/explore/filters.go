package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// filterPane is the left-side facet tree. Facets are headings that can be
// collapsed; their values toggle on selection.
type filterPane struct {
	listCursor
	facets    *facetState
	collapsed map[facetID]bool
	items     []filterItem
	width     int
	height    int
	focused   bool
}

// filterItem is one row of the flattened tree. ValueIdx is -1 for a facet
// heading and an index into facets.Values[FacetID] otherwise.
type filterItem struct {
	FacetID  facetID
	ValueIdx int
}

func (it filterItem) isHeading() bool { return it.ValueIdx < 0 }

func newFilterPane(facets *facetState) filterPane {
	fp := filterPane{
		facets:    facets,
		collapsed: make(map[facetID]bool),
	}
	fp.rebuildItems()
	return fp
}

// rebuildItems flattens the facet tree, skipping empty facets and the
// values of collapsed ones.
func (fp *filterPane) rebuildItems() {
	fp.items = nil
	for _, def := range facetDefs {
		values := fp.facets.Values[def.ID]
		if len(values) == 0 {
			continue
		}
		fp.items = append(fp.items, filterItem{FacetID: def.ID, ValueIdx: -1})
		if fp.collapsed[def.ID] {
			continue
		}
		for i := range values {
			fp.items = append(fp.items, filterItem{FacetID: def.ID, ValueIdx: i})
		}
	}
}

func (fp filterPane) Update(msg tea.Msg) (filterPane, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !fp.focused || !ok {
		return fp, nil
	}

	if fp.navigate(keyMsg, len(fp.items), fp.visibleRows()) {
		return fp, nil
	}
	switch {
	case key.Matches(keyMsg, defaultKeys.ToggleFilter):
		fp.toggleCurrent()
	case key.Matches(keyMsg, defaultKeys.ResetFilter):
		fp.facets.resetAll()
	}
	return fp, nil
}

func (fp *filterPane) toggleCurrent() {
	if fp.cursor < 0 || fp.cursor >= len(fp.items) {
		return
	}
	item := fp.items[fp.cursor]
	if !item.isHeading() {
		v := fp.facets.Values[item.FacetID][item.ValueIdx]
		v.Selected = !v.Selected
		return
	}

	fp.collapsed[item.FacetID] = !fp.collapsed[item.FacetID]
	fp.rebuildItems()
	for i, it := range fp.items {
		if it.isHeading() && it.FacetID == item.FacetID {
			fp.cursor = i
			break
		}
	}
	fp.clamp(len(fp.items), fp.visibleRows())
}

// label renders one tree row without selection highlighting.
func (fp filterPane) label(item filterItem) string {
	if item.isHeading() {
		arrow := "▾"
		if fp.collapsed[item.FacetID] {
			arrow = "▸"
		}
		return facetLabelStyle.Render(fmt.Sprintf(" %s %s", arrow, facetLabel(item.FacetID)))
	}

	v := fp.facets.Values[item.FacetID][item.ValueIdx]
	name := truncateString(v.Value, fp.width-12)
	if item.FacetID == facetDirectory {
		name = truncateLeft(v.Value, fp.width-12)
	}
	count := facetCountStyle.Render(fmt.Sprintf("(%d)", v.Count))
	if v.Selected {
		return fmt.Sprintf("   %s %s %s", facetSelectedStyle.Render("+"), facetSelectedStyle.Render(name), count)
	}
	return fmt.Sprintf("     %s %s", name, count)
}

func facetLabel(id facetID) string {
	for _, def := range facetDefs {
		if def.ID == id {
			return def.Label
		}
	}
	return ""
}

func (fp filterPane) View() string {
	if fp.width <= 0 || fp.height <= 0 {
		return ""
	}

	rowWidth := fp.width - 2
	start, end := fp.window(len(fp.items), fp.visibleRows())
	rows := make([]string, 0, fp.visibleRows())
	for i := start; i < end; i++ {
		line := fp.label(fp.items[i])
		if i == fp.cursor && fp.focused {
			line = selectedRowStyle.Width(rowWidth).Render(stripAnsi(line))
		}
		rows = append(rows, padRight(line, rowWidth))
	}
	for len(rows) < fp.visibleRows() {
		rows = append(rows, strings.Repeat(" ", rowWidth))
	}

	return framePane(" Filters ", strings.Join(rows, "\n"), fp.width, fp.height, fp.focused)
}

func (fp filterPane) visibleRows() int {
	return max(1, fp.height-4) // title + border
}

func (fp *filterPane) setSize(w, h int) {
	fp.width = w
	fp.height = h
}

// framePane draws a titled, bordered pane. The border is highlighted when
// the pane has focus.
func framePane(title, body string, width, height int, focused bool) string {
	borderStyle := inactiveBorderStyle
	if focused {
		borderStyle = activeBorderStyle
	}
	content := borderStyle.
		Width(width - 2).
		Height(height - 3).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content)
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// truncateLeft keeps the end of s, which is the informative part of a path.
func truncateLeft(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[len(s)-maxLen:]
	}
	return "..." + s[len(s)-maxLen+3:]
}

func padRight(s string, width int) string {
	visLen := lipgloss.Width(s)
	if visLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visLen)
}

// stripAnsi removes ANSI escape sequences for re-styling.
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

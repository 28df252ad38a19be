// Package explore is an interactive terminal browser for stored scan
// findings.
package explore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneFilters focusedPane = iota
	paneFindings
	paneDetails
)

// overlay tracks which modal overlay is active.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlaySource
)

// pagerFinishedMsg is sent when an external pager process exits.
type pagerFinishedMsg struct{ err error }

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	data     *exploreData
	filters  filterPane
	findings findingsPane
	details  detailsPane

	focus         focusedPane
	activeOverlay overlay
	showFilters   bool

	// Help state
	helpContent string
	helpOffset  int

	// Source viewer state
	sourceContent string
	sourceOffset  int

	width  int
	height int
	err    error
}

// New creates a new Model by loading findings from the results database
// at storePath.
func New(storePath string) (Model, error) {
	data, err := loadData(storePath)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

func newModel(data *exploreData) Model {
	m := Model{
		data:        data,
		filters:     newFilterPane(buildFacets(data.findings)),
		findings:    newFindingsPane(data.findings),
		details:     newDetailsPane(),
		focus:       paneFindings,
		showFilters: true,
	}

	m.findings.focused = true
	if f := m.findings.selectedFinding(); f != nil {
		m.details.setFinding(f)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("aitags explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pagerFinishedMsg:
		m.err = msg.err
		return m, nil

	case tea.MouseMsg:
		if m.activeOverlay != overlayNone {
			return m, nil
		}
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.handleMouseClick(msg.X, msg.Y)
		return m, nil

	case tea.KeyMsg:
		if m.activeOverlay != overlayNone {
			return m.updateOverlay(msg)
		}

		// Global keys (work regardless of focus)
		switch {
		case key.Matches(msg, defaultKeys.ForceQuit):
			return m, tea.Quit
		case key.Matches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, defaultKeys.ToggleHelp):
			m.activeOverlay = overlayHelp
			m.helpOffset = 0
			m.helpContent = renderHelp()
			return m, nil
		case key.Matches(msg, defaultKeys.ToggleFilters):
			m.showFilters = !m.showFilters
			if !m.showFilters && m.focus == paneFilters {
				m.setFocus(paneFindings)
			}
			return m, nil
		case key.Matches(msg, defaultKeys.FocusFilters):
			if m.showFilters {
				m.setFocus(paneFilters)
			}
			return m, nil
		case key.Matches(msg, defaultKeys.FocusFindings):
			m.setFocus(paneFindings)
			return m, nil
		case key.Matches(msg, defaultKeys.FocusDetails):
			m.setFocus(paneDetails)
			return m, nil
		}

		if m.focus != paneFilters && key.Matches(msg, defaultKeys.OpenSource) {
			return m, m.openSource()
		}

		// Delegate to focused pane
		switch m.focus {
		case paneFilters:
			var cmd tea.Cmd
			m.filters, cmd = m.filters.Update(msg)
			m.applyFilters()
			return m, cmd
		case paneFindings:
			prev := m.findings.selectedFinding()
			var cmd tea.Cmd
			m.findings, cmd = m.findings.Update(msg)
			if f := m.findings.selectedFinding(); f != prev {
				m.details.setFinding(f)
			}
			return m, cmd
		case paneDetails:
			var cmd tea.Cmd
			m.details, cmd = m.details.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	closing := key.Matches(msg, defaultKeys.Quit, defaultKeys.ForceQuit, defaultKeys.Close)
	offset := &m.helpOffset
	switch m.activeOverlay {
	case overlayHelp:
		closing = closing || key.Matches(msg, defaultKeys.ToggleHelp)
	case overlaySource:
		closing = closing || key.Matches(msg, defaultKeys.OpenSource)
		offset = &m.sourceOffset
	}
	if closing {
		m.activeOverlay = overlayNone
		return m, nil
	}

	switch {
	case key.Matches(msg, defaultKeys.Down):
		*offset++
	case key.Matches(msg, defaultKeys.Up):
		*offset = max(0, *offset-1)
	case key.Matches(msg, defaultKeys.PageDown):
		*offset += m.height / 2
	case key.Matches(msg, defaultKeys.PageUp):
		*offset = max(0, *offset-m.height/2)
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.activeOverlay != overlayNone {
		return m.renderOverlay()
	}

	statusBar := m.renderStatusBar()
	contentHeight := m.height - 2 // status bar + padding
	findingsHeight := contentHeight * 40 / 100
	detailsHeight := contentHeight - findingsHeight

	dataWidth := m.width
	var filtersView string
	if m.showFilters {
		filtersWidth := m.filtersWidth()
		dataWidth -= filtersWidth
		m.filters.setSize(filtersWidth, contentHeight)
		filtersView = m.filters.View()
	}

	m.findings.setSize(dataWidth, findingsHeight)
	m.details.setSize(dataWidth, detailsHeight)
	dataColumn := lipgloss.JoinVertical(lipgloss.Left, m.findings.View(), m.details.View())

	mainContent := dataColumn
	if m.showFilters {
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, filtersView, dataColumn)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) filtersWidth() int {
	return min(m.width*30/100, 50)
}

func (m Model) renderStatusBar() string {
	summary := fmt.Sprintf(" %d findings | %d shown", len(m.data.findings), len(m.findings.rows))
	if m.data.scan != nil {
		summary += fmt.Sprintf(" | scanned %s", m.data.scan.StartedAt.Local().Format("2006-01-02 15:04"))
	}
	if m.err != nil {
		summary += " | " + m.err.Error()
	}
	left := statusBarStyle.Render(summary)

	var hints []string
	for _, hint := range defaultKeys.statusHints() {
		hints = append(hints, helpKeyStyle.Render(hint.Help().Key)+":"+helpDescStyle.Render(hint.label))
	}
	right := strings.Join(hints, "  ")

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderOverlay() string {
	overlayWidth := m.width * 80 / 100
	overlayHeight := m.height * 80 / 100

	var content, title string
	switch m.activeOverlay {
	case overlayHelp:
		title = " Help (q to close) "
		content = scrollWindow(m.helpContent, m.helpOffset, overlayHeight-4)
	case overlaySource:
		title = " Source (q to close) "
		content = scrollWindow(m.sourceContent, m.sourceOffset, overlayHeight-4)
		if m.sourceContent == "" {
			content = "  No source available"
		}
	}

	box := modalStyle.
		Width(overlayWidth - 4).
		Height(overlayHeight - 2).
		Render(content)

	overlayView := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), box)

	// Center on screen
	hPad := (m.width - lipgloss.Width(overlayView)) / 2
	vPad := (m.height - lipgloss.Height(overlayView)) / 2

	return strings.Repeat("\n", max(0, vPad)) +
		lipgloss.NewStyle().PaddingLeft(max(0, hPad)).Render(overlayView)
}

// scrollWindow returns up to height lines of text starting at offset.
func scrollWindow(text string, offset, height int) string {
	lines := strings.Split(text, "\n")
	offset = min(max(0, offset), max(0, len(lines)-1))
	end := min(offset+max(1, height), len(lines))
	return strings.Join(lines[offset:end], "\n")
}

func (m *Model) setFocus(p focusedPane) {
	m.filters.focused = p == paneFilters
	m.findings.focused = p == paneFindings
	m.details.focused = p == paneDetails
	m.focus = p
}

func (m *Model) handleMouseClick(x, y int) {
	contentHeight := m.height - 2
	findingsHeight := contentHeight * 40 / 100

	left := 0
	if m.showFilters {
		left = m.filtersWidth()
		if x < left && y < contentHeight {
			m.setFocus(paneFilters)
			row := y - 2 // title + border top
			if idx := row + m.filters.offset; row >= 0 && idx < len(m.filters.items) {
				m.filters.cursor = idx
				m.filters.toggleCurrent()
				m.applyFilters()
			}
			return
		}
	}

	if x >= left && y < findingsHeight {
		m.setFocus(paneFindings)
		row := y - 4 // title + border top + header + separator
		if idx := row + m.findings.offset; row >= 0 && idx < len(m.findings.rows) {
			m.findings.cursor = idx
			m.details.setFinding(m.findings.selectedFinding())
		}
		return
	}
	if x >= left {
		m.setFocus(paneDetails)
	}
}

func (m *Model) applyFilters() {
	if !m.filters.facets.hasActiveFilters() {
		m.findings.setFilteredRows(m.data.findings)
	} else {
		var filtered []*findingRow
		for _, f := range m.data.findings {
			if m.filters.facets.matchesFinding(f) {
				filtered = append(filtered, f)
			}
		}
		m.findings.setFilteredRows(filtered)
	}
	m.filters.facets.updateCounts(m.data.findings)

	m.details.setFinding(m.findings.selectedFinding())
}

// openSource opens the selected finding's file in $PAGER at the tag's line.
// When the file is gone the stored snippet is shown in an overlay instead.
func (m *Model) openSource() tea.Cmd {
	f := m.findings.selectedFinding()
	if f == nil {
		return nil
	}

	if _, err := os.Stat(f.Path); err == nil {
		return openInPager(f.Path, f.Span.Line+1)
	}

	var sb strings.Builder
	for i, line := range f.Snippet.Lines {
		fmt.Fprintf(&sb, "%5d  %s\n", f.Snippet.FirstLine+i+1, line)
	}
	m.sourceContent = strings.TrimSuffix(sb.String(), "\n")
	m.sourceOffset = 0
	m.activeOverlay = overlaySource
	return nil
}

func openInPager(filePath string, line int) tea.Cmd {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	var args []string
	if line > 0 && pager == "less" {
		args = append(args, fmt.Sprintf("+%d", line))
	}
	args = append(args, filePath)

	c := exec.Command(pager, args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return pagerFinishedMsg{err: err}
	})
}

// Close releases resources held by the model.
func (m *Model) Close() error {
	if m.data != nil {
		return m.data.close()
	}
	return nil
}

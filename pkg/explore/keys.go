package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	FocusFilters  key.Binding
	FocusFindings key.Binding
	FocusDetails  key.Binding
	ToggleFilters key.Binding

	ToggleFilter key.Binding
	ResetFilter  key.Binding

	SortNext    key.Binding
	SortReverse key.Binding
	OpenSource  key.Binding
	ToggleHelp  key.Binding

	Close     key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func binding(keys []string, helpKey, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

var defaultKeys = keyMap{
	Up:       binding([]string{"up", "k"}, "k/up", "move up"),
	Down:     binding([]string{"down", "j"}, "j/down", "move down"),
	PageUp:   binding([]string{"pgup", "ctrl+b"}, "C-b", "page up"),
	PageDown: binding([]string{"pgdown", "ctrl+f"}, "C-f", "page down"),
	Home:     binding([]string{"home", "g"}, "g", "jump to top"),
	End:      binding([]string{"end", "G"}, "G", "jump to bottom"),

	FocusFilters:  binding([]string{"f1"}, "F1", "focus filters"),
	FocusFindings: binding([]string{"f"}, "f", "focus findings"),
	FocusDetails:  binding([]string{"d"}, "d", "focus details"),
	ToggleFilters: binding([]string{"f7"}, "F7", "show/hide filters"),

	ToggleFilter: binding([]string{"x", " ", "enter"}, "x/space", "toggle value or collapse facet"),
	ResetFilter:  binding([]string{"ctrl+r"}, "C-r", "reset all filters"),

	SortNext:    binding([]string{"s"}, "s", "cycle sort column"),
	SortReverse: binding([]string{"S"}, "S", "reverse sort order"),
	OpenSource:  binding([]string{"o"}, "o", "open file in $PAGER at the tag"),
	ToggleHelp:  binding([]string{"?"}, "?", "toggle this help"),

	Close:     binding([]string{"esc"}, "esc", "close overlay"),
	Quit:      binding([]string{"q"}, "q", "quit"),
	ForceQuit: binding([]string{"ctrl+c"}, "C-c", "force quit"),
}

// helpSections groups bindings for the help overlay.
func (k keyMap) helpSections() []helpSection {
	return []helpSection{
		{"NAVIGATION", []key.Binding{k.Up, k.Down, k.PageDown, k.PageUp, k.Home, k.End}},
		{"FOCUS", []key.Binding{k.FocusFilters, k.FocusFindings, k.FocusDetails, k.ToggleFilters}},
		{"FILTERS", []key.Binding{k.ToggleFilter, k.ResetFilter}},
		{"VIEWS", []key.Binding{k.SortNext, k.SortReverse, k.OpenSource, k.ToggleHelp, k.Close}},
		{"QUIT", []key.Binding{k.Quit, k.ForceQuit}},
	}
}

type helpSection struct {
	Title    string
	Bindings []key.Binding
}

// statusHint is a binding with the short label used in the status bar.
type statusHint struct {
	key.Binding
	label string
}

func (k keyMap) statusHints() []statusHint {
	return []statusHint{
		{k.Down, "nav"},
		{k.FocusFindings, "findings"},
		{k.FocusDetails, "details"},
		{k.SortNext, "sort"},
		{k.OpenSource, "source"},
		{k.ToggleFilters, "filters"},
		{k.ToggleHelp, "help"},
	}
}

// renderHelp generates the help overlay text from the key map.
func renderHelp() string {
	var b strings.Builder
	b.WriteString("aitags explore - Interactive Findings Browser\n")
	for _, section := range defaultKeys.helpSections() {
		fmt.Fprintf(&b, "\n%s\n", section.Title)
		for _, kb := range section.Bindings {
			h := kb.Help()
			fmt.Fprintf(&b, "  %-12s %s\n", h.Key, h.Desc)
		}
	}
	return b.String()
}

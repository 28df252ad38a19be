package explore

import (
	"sort"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// facetID identifies a facet category.
type facetID int

const (
	facetKind facetID = iota
	facetProblem
	facetDirectory
)

// facetDef defines a facet category.
type facetDef struct {
	ID    facetID
	Label string
}

var facetDefs = []facetDef{
	{facetKind, "Tag"},
	{facetProblem, "Problem"},
	{facetDirectory, "Directory"},
}

// facetValue is a single selectable value within a facet.
type facetValue struct {
	FacetID  facetID
	Value    string
	Count    int
	Selected bool
}

// facetState holds the complete filter state.
type facetState struct {
	Values map[facetID][]*facetValue
}

func newFacetState() *facetState {
	return &facetState{
		Values: make(map[facetID][]*facetValue),
	}
}

// facetValueOf returns the value a finding contributes to a facet.
func facetValueOf(id facetID, f *findingRow) string {
	switch id {
	case facetKind:
		return f.Kind.Key()
	case facetProblem:
		return f.Problem
	case facetDirectory:
		return f.Dir
	default:
		return ""
	}
}

// buildFacets builds facet values from findings data.
func buildFacets(findings []*findingRow) *facetState {
	fs := newFacetState()
	for _, def := range facetDefs {
		counts := make(map[string]int)
		for _, f := range findings {
			counts[facetValueOf(def.ID, f)]++
		}
		fs.Values[def.ID] = mapToFacetValues(def.ID, counts)
	}
	return fs
}

func mapToFacetValues(id facetID, counts map[string]int) []*facetValue {
	values := make([]*facetValue, 0, len(counts))
	for v, c := range counts {
		values = append(values, &facetValue{FacetID: id, Value: v, Count: c})
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].Value < values[j].Value
	})
	return values
}

// selectedValues returns the set of selected values for a facet.
func (fs *facetState) selectedValues(id facetID) map[string]bool {
	selected := make(map[string]bool)
	for _, v := range fs.Values[id] {
		if v.Selected {
			selected[v.Value] = true
		}
	}
	return selected
}

// hasActiveFilters returns true if any facet has selections.
func (fs *facetState) hasActiveFilters() bool {
	for _, values := range fs.Values {
		for _, v := range values {
			if v.Selected {
				return true
			}
		}
	}
	return false
}

// resetAll deselects all facet values.
func (fs *facetState) resetAll() {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Selected = false
		}
	}
}

// matchesFinding returns true if a finding passes all active filters.
// Within a facet: OR (union). Across facets: AND (intersection).
func (fs *facetState) matchesFinding(f *findingRow) bool {
	for _, def := range facetDefs {
		selected := fs.selectedValues(def.ID)
		if len(selected) == 0 {
			continue
		}
		if !selected[facetValueOf(def.ID, f)] {
			return false
		}
	}
	return true
}

// updateCounts recounts facet values based on currently visible findings.
func (fs *facetState) updateCounts(findings []*findingRow) {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Count = 0
		}
	}

	for _, f := range findings {
		if !fs.matchesFinding(f) {
			continue
		}
		for _, def := range facetDefs {
			value := facetValueOf(def.ID, f)
			for _, v := range fs.Values[def.ID] {
				if v.Value == value {
					v.Count++
				}
			}
		}
	}
}

// findingRow is the view model for a finding in the TUI.
type findingRow struct {
	FindingID string
	Kind      types.TagKind
	Path      string
	Dir       string
	Message   string
	Problem   string
	Span      types.Span
	Snippet   snippet
}

// snippet is the source surrounding a finding. FirstLine is 0-indexed.
type snippet struct {
	FirstLine int
	Lines     []string
}

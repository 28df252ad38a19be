// Package prefilter cheaply decides whether a file can contain tags before
// it is split into lines and parsed.
package prefilter

import (
	"github.com/cloudflare/ahocorasick"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// Prefilter uses Aho-Corasick to find tag keys in raw content. It is safe
// for concurrent use.
type Prefilter struct {
	matcher  *ahocorasick.Matcher
	keywords []string        // keyword at each index
	kinds    []types.TagKind // kind for each keyword
}

// New creates a prefilter for the given tag kinds. With no kinds, every
// known kind is used.
func New(kinds ...types.TagKind) *Prefilter {
	if len(kinds) == 0 {
		kinds = types.AllTagKinds
	}

	pf := &Prefilter{}
	seen := make(map[types.TagKind]bool)
	for _, kind := range kinds {
		if seen[kind] {
			continue
		}
		seen[kind] = true
		pf.keywords = append(pf.keywords, kind.Key())
		pf.kinds = append(pf.kinds, kind)
	}

	pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	return pf
}

// Filter returns the kinds whose key occurs somewhere in content, in the
// order the prefilter was built with. A hit does not guarantee a valid tag.
func (pf *Prefilter) Filter(content []byte) []types.TagKind {
	if len(content) == 0 {
		return nil
	}

	// Filter runs from parallel enumerator readers; Match mutates the matcher.
	hits := pf.matcher.MatchThreadSafe(content)
	if len(hits) == 0 {
		return nil
	}

	present := make([]bool, len(pf.kinds))
	for _, hit := range hits {
		present[hit] = true
	}

	result := make([]types.TagKind, 0, len(hits))
	for i, kind := range pf.kinds {
		if present[i] {
			result = append(result, kind)
		}
	}
	return result
}

// MayContain reports whether content contains any tracked tag key.
func (pf *Prefilter) MayContain(content []byte) bool {
	return len(pf.Filter(content)) > 0
}

// Keywords returns the literal keys the prefilter searches for.
func (pf *Prefilter) Keywords() []string {
	out := make([]string, len(pf.keywords))
	copy(out, pf.keywords)
	return out
}

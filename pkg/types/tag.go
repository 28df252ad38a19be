package types

import (
	"fmt"
	"strings"
)

// TagPrefix is the literal that introduces every annotation tag.
const TagPrefix = "@AI:"

// TagKind is the closed set of tag kinds the scanner interprets.
type TagKind string

const (
	KindExpiry TagKind = "expiry"
	KindSync   TagKind = "sync"
)

// AllTagKinds lists every recognized kind in declaration order.
var AllTagKinds = []TagKind{KindExpiry, KindSync}

// ParseTagKind maps a tag name (the part after "@AI:") to a kind.
// Matching is case-insensitive. Unknown names return false.
func ParseTagKind(name string) (TagKind, bool) {
	switch strings.ToUpper(name) {
	case "EXPIRY":
		return KindExpiry, true
	case "SYNC":
		return KindSync, true
	}
	return "", false
}

// Key returns the full tag key as written in source, e.g. "@AI:EXPIRY".
func (k TagKind) Key() string {
	switch k {
	case KindExpiry:
		return TagPrefix + "EXPIRY"
	case KindSync:
		return TagPrefix + "SYNC"
	default:
		panic(fmt.Sprintf("types: unknown tag kind %q", string(k)))
	}
}

// TagEntry is a recognized tag found on a single line.
// Entries are rebuilt on every scan and carry no identity across edits.
type TagEntry struct {
	Kind    TagKind `json:"kind"`
	Payload string  `json:"payload"`
	// Raw is the matched text from "@AI:" through the end of the line.
	Raw string `json:"raw"`
	// Line is 0-indexed. StartChar and EndChar are byte offsets in the line,
	// EndChar = StartChar + len(Raw).
	Line      int `json:"line"`
	StartChar int `json:"start_char"`
	EndChar   int `json:"end_char"`
}

// Span returns the source span covered by the entry.
func (t TagEntry) Span() Span {
	return Span{Line: t.Line, StartChar: t.StartChar, EndChar: t.EndChar}
}

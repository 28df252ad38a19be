package tag

import (
	"strings"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/fence"
	"github.com/praetorian-inc/aitags/pkg/types"
)

// ParseLine returns the recognized tag on a line. Tags whose name is not a
// known kind are ignored.
func ParseLine(lineText string, line int) (types.TagEntry, bool) {
	key, ok := ParseKey(lineText, line)
	if !ok {
		return types.TagEntry{}, false
	}

	m := tagPattern.FindStringSubmatch(lineText[key.StartChar:])
	if m == nil {
		return types.TagEntry{}, false
	}

	kind, ok := types.ParseTagKind(m[1])
	if !ok {
		return types.TagEntry{}, false
	}

	return types.TagEntry{
		Kind:      kind,
		Payload:   strings.TrimSpace(m[2]),
		Raw:       m[0],
		Line:      line,
		StartChar: key.StartChar,
		EndChar:   key.StartChar + len(m[0]),
	}, true
}

// Scan returns the tags of every line of the document, in line order.
func Scan(doc document.Document) []types.TagEntry {
	var tags []types.TagEntry
	for line := 0; line < doc.LineCount(); line++ {
		if entry, ok := ParseLine(doc.Line(line), line); ok {
			tags = append(tags, entry)
		}
	}
	return tags
}

// ScanDocument is Scan with markdown fenced code blocks excluded.
func ScanDocument(doc document.Document) []types.TagEntry {
	tags := Scan(doc)
	if !document.IsMarkdown(doc) {
		return tags
	}

	mask := fence.BuildMask(doc)
	filtered := tags[:0]
	for _, t := range tags {
		if !mask[t.Line] {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Severity of a finding. Every finding the scanner emits is a warning.
type Severity string

const SeverityWarning Severity = "warning"

// Finding is a problem reported against a tag's span in a document.
type Finding struct {
	ID       string   `json:"id"`
	Kind     TagKind  `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
	Span     Span     `json:"span"`
}

// NewFinding builds a warning finding for a tag and computes its ID.
func NewFinding(tag TagEntry, path, message string) *Finding {
	f := &Finding{
		Kind:     tag.Kind,
		Severity: SeverityWarning,
		Message:  message,
		Path:     path,
		Span:     tag.Span(),
	}
	f.ID = ComputeFindingID(f.Path, f.Span, f.Message)
	return f
}

// ComputeFindingID computes a content-based finding ID.
// Format: SHA-1(path + '\0' + line:start:end + '\0' + message)
func ComputeFindingID(path string, span Span, message string) string {
	h := sha1.New()

	h.Write([]byte(path))
	h.Write([]byte{0})

	h.Write([]byte(fmt.Sprintf("%d:%d:%d", span.Line, span.StartChar, span.EndChar)))
	h.Write([]byte{0})

	h.Write([]byte(message))

	return hex.EncodeToString(h.Sum(nil))
}

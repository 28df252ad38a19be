package types

// Span is a single-line range: 0-indexed line, byte offsets [StartChar, EndChar).
type Span struct {
	Line      int `json:"line"`
	StartChar int `json:"start_char"`
	EndChar   int `json:"end_char"`
}

// SourcePoint is line:column position (1-based).
type SourcePoint struct {
	Line   int
	Column int
}

// SourcePoints converts the span to 1-based start and end points,
// the form SARIF and human output use.
func (s Span) SourcePoints() (start, end SourcePoint) {
	start = SourcePoint{Line: s.Line + 1, Column: s.StartChar + 1}
	end = SourcePoint{Line: s.Line + 1, Column: s.EndChar + 1}
	return start, end
}

package types

import "fmt"

// LineRange is a 1-indexed inclusive line reference. End is nil for a single line.
type LineRange struct {
	Start int  `json:"start"`
	End   *int `json:"end,omitempty"`
}

// String renders the range in the ":L10-L20" suffix form without the colon.
func (r LineRange) String() string {
	if r.End == nil {
		return fmt.Sprintf("L%d", r.Start)
	}
	return fmt.Sprintf("L%d-L%d", r.Start, *r.End)
}

// ParsedSyncToken is one sync target split into path and optional suffix.
// LineRange and Symbol are never both set.
type ParsedSyncToken struct {
	FilePath  string     `json:"file_path"`
	LineRange *LineRange `json:"line_range,omitempty"`
	Symbol    string     `json:"symbol,omitempty"`
}

// TargetStatus discriminates ResolvedTarget.
type TargetStatus string

const (
	TargetOK      TargetStatus = "ok"
	TargetMissing TargetStatus = "missing"
)

// ResolvedTarget is the outcome of resolving one sync token.
//
// For TargetOK, Location, IsDirectory, FromDirectory, LineRange and Symbol
// are meaningful. For TargetMissing, Reason, CandidateLocation and
// AllowCreate are. Use NewOKTarget and NewMissingTarget to build values.
type ResolvedTarget struct {
	Status TargetStatus `json:"status"`
	Token  string       `json:"token"`

	Location      string     `json:"location,omitempty"`
	IsDirectory   bool       `json:"is_directory,omitempty"`
	FromDirectory bool       `json:"from_directory,omitempty"`
	LineRange     *LineRange `json:"line_range,omitempty"`
	Symbol        string     `json:"symbol,omitempty"`

	Reason            string `json:"reason,omitempty"`
	CandidateLocation string `json:"candidate_location,omitempty"`
	AllowCreate       bool   `json:"allow_create,omitempty"`
}

// NewOKTarget builds a resolved target.
func NewOKTarget(token, location string, isDirectory, fromDirectory bool, parsed ParsedSyncToken) ResolvedTarget {
	return ResolvedTarget{
		Status:        TargetOK,
		Token:         token,
		Location:      location,
		IsDirectory:   isDirectory,
		FromDirectory: fromDirectory,
		LineRange:     parsed.LineRange,
		Symbol:        parsed.Symbol,
	}
}

// NewMissingTarget builds an unresolved target. candidate may be empty.
func NewMissingTarget(token, reason, candidate string, allowCreate bool) ResolvedTarget {
	return ResolvedTarget{
		Status:            TargetMissing,
		Token:             token,
		Reason:            reason,
		CandidateLocation: candidate,
		AllowCreate:       allowCreate,
	}
}

// IsMissing reports whether the target could not be resolved.
func (t ResolvedTarget) IsMissing() bool {
	switch t.Status {
	case TargetOK:
		return false
	case TargetMissing:
		return true
	default:
		panic(fmt.Sprintf("types: unknown target status %q", string(t.Status)))
	}
}

package types

// SymbolStatus discriminates SymbolLocation.
type SymbolStatus string

const (
	SymbolFound    SymbolStatus = "found"
	SymbolNotFound SymbolStatus = "not_found"
)

// SymbolLocation is the outcome of looking up a dotted symbol path in a file.
// Line and Column are 0-indexed and set for SymbolFound; Reason for SymbolNotFound.
type SymbolLocation struct {
	Status SymbolStatus `json:"status"`
	Line   int          `json:"line"`
	Column int          `json:"column"`
	Reason string       `json:"reason,omitempty"`
}

// Package sarif renders findings as a SARIF 2.1.0 log.
package sarif

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/aitags/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "aitags"
)

// ToolVersion is reported in the driver block. The CLI overrides it at startup.
var ToolVersion = "0.1.0"

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one tag kind
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single finding
type Result struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level"`
	Message             Message           `json:"message"`
	Locations           []Location        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range
type Region struct {
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Snippet contains the tag text
type Snippet struct {
	Text string `json:"text"`
}

// RuleID returns the SARIF rule id for a tag kind.
func RuleID(kind types.TagKind) string {
	return "aitags/" + string(kind)
}

func ruleFor(kind types.TagKind) Rule {
	var text string
	switch kind {
	case types.KindExpiry:
		text = "Expiry tag is malformed or its date has passed"
	case types.KindSync:
		text = "Sync tag target cannot be resolved"
	default:
		panic(fmt.Sprintf("sarif: unknown tag kind %q", string(kind)))
	}
	return Rule{
		ID:               RuleID(kind),
		Name:             kind.Key(),
		ShortDescription: ShortDescription{Text: text},
	}
}

// NewReport creates a new SARIF report with one rule per tag kind
func NewReport() *Report {
	rules := make([]Rule, 0, len(types.AllTagKinds))
	for _, kind := range types.AllTagKinds {
		rules = append(rules, ruleFor(kind))
	}

	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   rules,
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddResult adds a finding to the report. snippet may be empty.
func (r *Report) AddResult(f *types.Finding, snippet string) {
	start, end := f.Span.SourcePoints()

	region := Region{
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
	}
	if snippet != "" {
		region.Snippet = &Snippet{Text: snippet}
	}

	result := Result{
		RuleID: RuleID(f.Kind),
		Level:  string(f.Severity),
		Message: Message{
			Text: f.Message,
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{
						URI: formatFileURI(f.Path),
					},
					Region: region,
				},
			},
		},
		PartialFingerprints: map[string]string{"aitagsFindingId/v1": f.ID},
	}

	r.Runs[0].Results = append(r.Runs[0].Results, result)
}

// AddFindings adds every finding without snippets.
func (r *Report) AddFindings(findings []*types.Finding) {
	for _, f := range findings {
		r.AddResult(f, "")
	}
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		// Normalize path separators for URI format
		path = filepath.ToSlash(path)
		// Ensure path starts with /
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	// Relative paths stay as-is
	return filepath.ToSlash(path)
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/sarif"
	"github.com/praetorian-inc/aitags/pkg/types"
)

// styles holds color formatters for human output
type styles struct {
	path     *color.Color
	position *color.Color
	severity *color.Color
	kind     *color.Color
	heading  *color.Color
	ok       *color.Color
	missing  *color.Color
}

// newStyles creates color formatters. enabled=false strips all colors.
func newStyles(enabled bool) *styles {
	s := &styles{
		path:     color.New(color.Bold, color.FgHiWhite),
		position: color.New(color.FgHiBlue),
		severity: color.New(color.FgYellow),
		kind:     color.New(color.FgHiBlack),
		heading:  color.New(color.Bold),
		ok:       color.New(color.FgHiGreen),
		missing:  color.New(color.FgRed),
	}

	if !enabled {
		for _, c := range []*color.Color{s.path, s.position, s.severity, s.kind, s.heading, s.ok, s.missing} {
			c.DisableColor()
		}
	}

	return s
}

// colorEnabled resolves the --color flag. "auto" colors only a terminal
// stdout without NO_COLOR set.
func colorEnabled(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("unknown color mode: %s", mode)
	}
}

func stylesFor(mode string) (*styles, error) {
	enabled, err := colorEnabled(mode)
	if err != nil {
		return nil, err
	}
	color.NoColor = !enabled
	return newStyles(enabled), nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// outputFindings writes findings in the requested format.
func outputFindings(cmd *cobra.Command, format string, findings []*types.Finding) error {
	switch format {
	case "json":
		if findings == nil {
			findings = []*types.Finding{}
		}
		return writeJSON(cmd.OutOrStdout(), findings)
	case "sarif":
		return outputSARIF(cmd.OutOrStdout(), findings)
	case "human":
		s, err := stylesFor(colorMode)
		if err != nil {
			return err
		}
		printFindings(cmd.OutOrStdout(), s, findings)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// printFindings groups findings by file, one line per finding:
//
//	src/a.ts
//	  3:4  warning  @AI:EXPIRY expired on 2026-03-01 UTC  expiry
func printFindings(out io.Writer, s *styles, findings []*types.Finding) {
	if len(findings) == 0 {
		fmt.Fprintf(out, "No findings.\n")
		return
	}

	current := ""
	files := 0
	for _, f := range findings {
		if f.Path != current || files == 0 {
			if files > 0 {
				fmt.Fprintln(out)
			}
			current = f.Path
			files++
			fmt.Fprintf(out, "%s\n", s.path.Sprint(displayPath(f.Path)))
		}

		start, _ := f.Span.SourcePoints()
		fmt.Fprintf(out, "  %s  %s  %s  %s\n",
			s.position.Sprintf("%d:%d", start.Line, start.Column),
			s.severity.Sprint(string(f.Severity)),
			f.Message,
			s.kind.Sprint(string(f.Kind)))
	}

	fmt.Fprintf(out, "\n%s\n", s.heading.Sprintf("%d findings in %d files", len(findings), files))
}

// outputSARIF writes a SARIF 2.1.0 report. Snippets are read back from
// disk; files that changed since the scan get no snippet.
func outputSARIF(out io.Writer, findings []*types.Finding) error {
	report := sarif.NewReport()

	docs := make(map[string]document.Document)
	for _, f := range findings {
		doc, ok := docs[f.Path]
		if !ok {
			opened, err := document.Open(f.Path)
			if err == nil {
				doc = opened
			}
			docs[f.Path] = doc
		}
		report.AddResult(f, snippetFor(doc, f.Span))
	}

	jsonBytes, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("serializing SARIF: %w", err)
	}
	if _, err := out.Write(append(jsonBytes, '\n')); err != nil {
		return fmt.Errorf("writing SARIF output: %w", err)
	}
	return nil
}

func snippetFor(doc document.Document, span types.Span) string {
	if doc == nil || span.Line >= doc.LineCount() {
		return ""
	}
	line := doc.Line(span.Line)
	if span.StartChar > len(line) || span.EndChar > len(line) || span.StartChar > span.EndChar {
		return ""
	}
	return line[span.StartChar:span.EndChar]
}

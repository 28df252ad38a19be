package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/aitags/pkg/store"
	"github.com/praetorian-inc/aitags/pkg/types"
)

var (
	reportDatastore string
	reportFormat    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from stored scan results",
	Long:  "Read findings from a SQLite store written by 'aitags scan --db' and output them",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "db", "aitags.db", "Path to SQLite results database")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
}

// reportJSON is the json report layout.
type reportJSON struct {
	Scan     *store.ScanRun   `json:"scan,omitempty"`
	Findings []*types.Finding `json:"findings"`
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportDatastore == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}
	if _, err := os.Stat(reportDatastore); err != nil {
		return fmt.Errorf("datastore not found: %s", reportDatastore)
	}

	s, err := store.New(store.Config{
		Path: reportDatastore,
	})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	findings, err := s.GetAllFindings()
	if err != nil {
		return fmt.Errorf("retrieving findings: %w", err)
	}
	scan, err := s.LatestScan()
	if err != nil {
		return fmt.Errorf("retrieving scan: %w", err)
	}

	switch reportFormat {
	case "json":
		if findings == nil {
			findings = []*types.Finding{}
		}
		return writeJSON(cmd.OutOrStdout(), reportJSON{Scan: scan, Findings: findings})
	case "sarif":
		return outputSARIF(cmd.OutOrStdout(), findings)
	case "human":
		return outputReportHuman(cmd, scan, findings)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

func outputReportHuman(cmd *cobra.Command, scan *store.ScanRun, findings []*types.Finding) error {
	out := cmd.OutOrStdout()
	s, err := stylesFor(colorMode)
	if err != nil {
		return err
	}

	if scan != nil {
		fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Scan:"), scan.ID)
		fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Root:"), displayPath(scan.Root))
		fmt.Fprintf(out, "%s %s (%s)\n", s.heading.Sprint("Started:"),
			scan.StartedAt.Local().Format("2006-01-02 15:04:05"),
			scan.FinishedAt.Sub(scan.StartedAt).Round(time.Millisecond))
		fmt.Fprintf(out, "%s %d\n\n", s.heading.Sprint("Files:"), scan.Files)
	}

	printFindings(out, s, findings)

	byKind := make(map[types.TagKind]int)
	for _, f := range findings {
		byKind[f.Kind]++
	}
	if len(byKind) > 0 {
		kinds := make([]string, 0, len(byKind))
		for kind := range byKind {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)

		fmt.Fprintf(out, "\n%s\n", s.heading.Sprint("By tag:"))
		for _, kind := range kinds {
			tk := types.TagKind(kind)
			fmt.Fprintf(out, "  %-12s %d\n", tk.Key(), byKind[tk])
		}
	}
	return nil
}

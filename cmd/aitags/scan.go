package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/aitags/pkg/store"
)

// errFindingsReported fails the command when --fail-on-findings is set.
var errFindingsReported = errors.New("findings reported")

var (
	scanOutputPath     string
	scanOutputFormat   string
	scanFailOnFindings bool
	scanMaxFileSize    int64
	scanIncludeHidden  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path...]",
	Short: "Scan workspace folders for @AI: tag problems",
	Long: `Scan workspace folders for expired or malformed @AI:EXPIRY dates and
@AI:SYNC links whose targets cannot be resolved.

Without arguments the configured workspace folders are scanned, or the
current directory when none are configured.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanOutputPath, "db", ":memory:", "SQLite database to store results in")
	scanCmd.Flags().StringVar(&scanOutputFormat, "format", "human", "Output format: human, json, sarif")
	scanCmd.Flags().BoolVar(&scanFailOnFindings, "fail-on-findings", false, "Exit with status 2 when findings are reported")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", 0, "Maximum file size to scan in bytes (default from config)")
	scanCmd.Flags().BoolVar(&scanIncludeHidden, "include-hidden", false, "Include hidden files and directories")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scanMaxFileSize > 0 {
		cfg.Scan.MaxFileSize = scanMaxFileSize
	}
	if scanIncludeHidden {
		cfg.Scan.IncludeHidden = true
	}

	roots, err := scanRoots(cfg, args)
	if err != nil {
		return err
	}

	s, err := store.New(store.Config{
		Path: scanOutputPath,
	})
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()

	service, err := newService(cfg, roots, s)
	if err != nil {
		return err
	}

	run, err := service.ScanWorkspace(commandContext(cmd), roots)
	if err != nil {
		return err
	}

	findings, err := service.Findings()
	if err != nil {
		return fmt.Errorf("retrieving findings: %w", err)
	}

	// Summary goes to stderr for json/sarif to keep stdout parseable
	summary := cmd.OutOrStdout()
	if scanOutputFormat == "json" || scanOutputFormat == "sarif" {
		summary = cmd.ErrOrStderr()
	}
	fmt.Fprintf(summary, "Scan complete: %d files, %d findings\n", run.Files, run.Findings)
	if scanOutputPath != ":memory:" {
		fmt.Fprintf(summary, "Results stored in: %s\n", scanOutputPath)
	}

	if err := outputFindings(cmd, scanOutputFormat, findings); err != nil {
		return err
	}

	if scanFailOnFindings && len(findings) > 0 {
		return fmt.Errorf("%d %w", len(findings), errFindingsReported)
	}
	return nil
}

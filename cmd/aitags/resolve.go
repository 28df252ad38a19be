package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/aitags/pkg/document"
	"github.com/praetorian-inc/aitags/pkg/synclink"
	"github.com/praetorian-inc/aitags/pkg/types"
)

var (
	resolveExpandDirectories bool
	resolveFormat            string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <document> <payload>",
	Short: "Resolve @AI:SYNC targets as written in a document",
	Long: `Resolve the comma-separated targets of an @AI:SYNC payload relative to a
document, the way the scanner does. Relative paths starting with ./ or ../
are resolved against the document's directory, all others against the
workspace root.`,
	Example: `  aitags resolve src/a.ts "./b.ts:L10-L20, lib/#Service.run"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveExpandDirectories, "expand-directories", false, "Replace folder targets with the files directly inside them")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "human", "Output format: human, json")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving document path: %w", err)
	}
	doc, err := document.Open(path)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}

	resolver, err := newResolver(cfg, nil)
	if err != nil {
		return err
	}

	targets := resolver.ResolveTargets(commandContext(cmd), doc, args[1], synclink.Options{
		ExpandDirectories: resolveExpandDirectories,
	})

	switch resolveFormat {
	case "json":
		if targets == nil {
			targets = []types.ResolvedTarget{}
		}
		return writeJSON(cmd.OutOrStdout(), targets)
	case "human":
		s, err := stylesFor(colorMode)
		if err != nil {
			return err
		}
		printTargets(cmd, s, targets)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", resolveFormat)
	}
}

func printTargets(cmd *cobra.Command, s *styles, targets []types.ResolvedTarget) {
	out := cmd.OutOrStdout()
	if len(targets) == 0 {
		fmt.Fprintf(out, "No targets.\n")
		return
	}

	for _, t := range targets {
		if t.IsMissing() {
			fmt.Fprintf(out, "%s %s: %s\n", s.missing.Sprint("missing"), t.Token, t.Reason)
			if t.CandidateLocation != "" {
				create := ""
				if t.AllowCreate {
					create = " (can be created)"
				}
				fmt.Fprintf(out, "        candidate %s%s\n", displayPath(t.CandidateLocation), create)
			}
			continue
		}

		suffix := ""
		switch {
		case t.LineRange != nil:
			suffix = ":" + t.LineRange.String()
		case t.Symbol != "":
			suffix = "#" + t.Symbol
		}
		kind := ""
		if t.IsDirectory {
			kind = " (folder)"
		}
		fmt.Fprintf(out, "%s      %s -> %s%s%s\n", s.ok.Sprint("ok"), t.Token, s.path.Sprint(displayPath(t.Location)), suffix, kind)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/praetorian-inc/aitags/pkg/index"
)

var (
	indexFormat string
	indexKeys   []string
)

var indexCmd = &cobra.Command{
	Use:   "index [path...]",
	Short: "List indexed tags grouped by key",
	Long: `Build the tag index for workspace folders and print it grouped by tag
key. Only allowlisted keys are indexed (default @AI:EXPIRY).`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexFormat, "format", "human", "Output format: human, json, yaml")
	indexCmd.Flags().StringSliceVar(&indexKeys, "keys", index.DefaultKeys, "Tag keys to index")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	roots, err := scanRoots(cfg, args)
	if err != nil {
		return err
	}

	idx := index.New(index.WithKeys(indexKeys...), index.WithLogger(logger))
	if err := idx.ScanWorkspace(commandContext(cmd), walkConfig(cfg), roots...); err != nil {
		return err
	}

	groups := idx.Groups()
	if groups == nil {
		groups = []index.Group{}
	}

	switch indexFormat {
	case "json":
		return writeJSON(cmd.OutOrStdout(), groups)
	case "yaml":
		data, err := yaml.Marshal(groups)
		if err != nil {
			return fmt.Errorf("serializing index: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	case "human":
		s, err := stylesFor(colorMode)
		if err != nil {
			return err
		}
		printGroups(cmd, s, groups)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", indexFormat)
	}
}

func printGroups(cmd *cobra.Command, s *styles, groups []index.Group) {
	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintf(out, "No tags indexed.\n")
		return
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%d)\n", s.heading.Sprint(g.Key), len(g.Entries))
		for _, e := range g.Entries {
			fmt.Fprintf(out, "  %s:%s  %s\n",
				s.path.Sprint(displayPath(e.Path)),
				s.position.Sprintf("%d", e.Line+1),
				e.Payload)
		}
	}
}

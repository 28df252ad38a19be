package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/aitags/pkg/types"
)

var locateFormat string

var locateCmd = &cobra.Command{
	Use:     "locate <file> <symbol>",
	Short:   "Find a dotted symbol path such as Service.run in a file",
	Long:    "Find a symbol in a Go, Python, JavaScript or TypeScript file. Nested symbols are addressed with dots.",
	Example: `  aitags locate src/auth.ts AuthService.login`,
	Args:    cobra.ExactArgs(2),
	RunE:    runLocate,
}

func init() {
	locateCmd.Flags().StringVar(&locateFormat, "format", "human", "Output format: human, json")
}

func runLocate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving file path: %w", err)
	}

	loc := newSymbolLocator(cfg).Locate(commandContext(cmd), path, args[1])

	switch locateFormat {
	case "json":
		if err := writeJSON(cmd.OutOrStdout(), loc); err != nil {
			return err
		}
	case "human":
		if loc.Status == types.SymbolFound {
			// 1-based, editor style
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d\n", displayPath(path), loc.Line+1, loc.Column+1)
		}
	default:
		return fmt.Errorf("unknown output format: %s", locateFormat)
	}

	if loc.Status == types.SymbolNotFound {
		return errors.New(loc.Reason)
	}
	return nil
}

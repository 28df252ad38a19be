package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/aitags/pkg/config"
	"github.com/praetorian-inc/aitags/pkg/enum"
	"github.com/praetorian-inc/aitags/pkg/scanner"
	"github.com/praetorian-inc/aitags/pkg/store"
	"github.com/praetorian-inc/aitags/pkg/symbol"
	"github.com/praetorian-inc/aitags/pkg/synclink"
	"github.com/praetorian-inc/aitags/pkg/workspace"
)

// loadConfig reads the effective configuration honoring --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{File: configFile})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLocator sandboxes to the configured workspace folders first, then the
// enclosing git repository, then the given fallback roots.
func newLocator(cfg *config.Config, fallback []string) (workspace.Locator, error) {
	var chain workspace.Chain
	if len(cfg.Workspace.Folders) > 0 {
		folders, err := workspace.NewFolders(cfg.Workspace.Folders...)
		if err != nil {
			return nil, fmt.Errorf("resolving workspace folders: %w", err)
		}
		chain = append(chain, folders)
	}

	chain = append(chain, workspace.GitLocator{})

	if len(fallback) > 0 {
		folders, err := workspace.NewFolders(fallback...)
		if err != nil {
			return nil, fmt.Errorf("resolving workspace roots: %w", err)
		}
		chain = append(chain, folders)
	}
	return chain, nil
}

func newResolver(cfg *config.Config, fallback []string) (*synclink.Resolver, error) {
	locator, err := newLocator(cfg, fallback)
	if err != nil {
		return nil, err
	}
	return synclink.NewResolver(locator, synclink.WithLogger(logger)), nil
}

func newSymbolLocator(cfg *config.Config) *symbol.Locator {
	return symbol.NewLocator(symbol.NewTreeSitterProvider(cfg.Scan.MaxFileSize), symbol.WithLogger(logger))
}

// newService wires the diagnostic core to a store. Paths outside a git
// repository are sandboxed to the scanned roots.
func newService(cfg *config.Config, roots []string, st store.Store) (*scanner.Service, error) {
	resolver, err := newResolver(cfg, roots)
	if err != nil {
		return nil, err
	}

	var coreOpts []scanner.CoreOption
	coreOpts = append(coreOpts, scanner.WithCoreLogger(logger))
	if cfg.Sync.CheckSymbols {
		coreOpts = append(coreOpts, scanner.WithSymbolLocator(newSymbolLocator(cfg)))
	}
	core := scanner.NewCore(cfg.Scanner(), resolver, coreOpts...)

	return scanner.NewService(core, st,
		scanner.WithWalkConfig(cfg.Scan),
		scanner.WithLogger(logger)), nil
}

// scanRoots picks the absolute roots to walk: explicit arguments, then
// configured workspace folders, then the working directory.
func scanRoots(cfg *config.Config, args []string) ([]string, error) {
	roots := args
	if len(roots) == 0 {
		roots = cfg.Workspace.Folders
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}

	abs := make([]string, 0, len(roots))
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("target does not exist: %s", root)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("target is not a directory: %s", root)
		}
		path, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", root, err)
		}
		abs = append(abs, path)
	}
	return abs, nil
}

// walkConfig converts the scan settings for one enumerator root.
func walkConfig(cfg *config.Config) enum.Config {
	return enum.Config{
		IncludeHidden:  cfg.Scan.IncludeHidden,
		MaxFileSize:    cfg.Scan.MaxFileSize,
		Exclude:        cfg.Scan.Exclude,
		SkipUnreadable: true,
	}
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// displayPath shortens paths under the working directory.
func displayPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

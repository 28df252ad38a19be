package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/praetorian-inc/aitags/pkg/scanner"
	"github.com/praetorian-inc/aitags/pkg/store"
	"github.com/praetorian-inc/aitags/pkg/watch"
)

var (
	watchDebounce time.Duration
	watchDB       string
)

var watchCmd = &cobra.Command{
	Use:   "watch [path...]",
	Short: "Rescan files as they change",
	Long: `Scan workspace folders, then watch them and rescan changed files after a
short quiet period. Findings of removed files are dropped. The full
finding list is printed after every batch.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before changed files are rescanned")
	watchCmd.Flags().StringVar(&watchDB, "db", ":memory:", "SQLite database to store results in")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	roots, err := scanRoots(cfg, args)
	if err != nil {
		return err
	}

	s, err := store.New(store.Config{Path: watchDB})
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()

	service, err := newService(cfg, roots, s)
	if err != nil {
		return err
	}

	st, err := stylesFor(colorMode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := service.ScanWorkspace(ctx, roots); err != nil {
		return err
	}
	if err := printCurrent(cmd.OutOrStdout(), st, service); err != nil {
		return err
	}

	opts := watch.DefaultOptions()
	opts.Debounce = watchDebounce
	opts.Exclude = cfg.Scan.Exclude
	opts.IncludeHidden = cfg.Scan.IncludeHidden
	opts.Logger = logger

	w, err := watch.New(roots, func(ctx context.Context, batch watch.Batch) {
		if err := applyBatch(ctx, service, cfg.Scan.MaxFileSize, batch); err != nil {
			logger.Error("rescan failed", zap.Error(err))
			return
		}
		if err := printCurrent(cmd.OutOrStdout(), st, service); err != nil {
			logger.Error("printing findings", zap.Error(err))
		}
	}, opts)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	logger.Info("watching for changes", zap.Strings("roots", roots))

	<-ctx.Done()
	return w.Stop()
}

// applyBatch rescans changed files and drops findings under removed paths.
// Files that vanished or grew past maxFileSize are treated as removed.
func applyBatch(ctx context.Context, service *scanner.Service, maxFileSize int64, batch watch.Batch) error {
	removed := append([]string(nil), batch.Removed...)

	for _, path := range batch.Changed {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || (maxFileSize > 0 && info.Size() > maxFileSize) {
			removed = append(removed, path)
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Debug("skipping unreadable file", zap.String("path", path), zap.Error(err))
			removed = append(removed, path)
			continue
		}
		if _, err := service.ScanFile(ctx, path, content); err != nil {
			return err
		}
	}

	if err := clearRemoved(service, removed); err != nil {
		return err
	}

	logger.Debug("batch applied",
		zap.Int("changed", len(batch.Changed)),
		zap.Int("removed", len(removed)))
	return nil
}

// clearRemoved drops stored findings for removed paths. A removed
// directory is reported once, so its files are matched by prefix.
func clearRemoved(service *scanner.Service, removed []string) error {
	if len(removed) == 0 {
		return nil
	}

	paths, err := service.Store().Paths()
	if err != nil {
		return fmt.Errorf("listing stored paths: %w", err)
	}
	for _, stored := range paths {
		for _, gone := range removed {
			if stored == gone || strings.HasPrefix(stored, gone+string(filepath.Separator)) {
				if err := service.ClearDocument(stored); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

func printCurrent(out io.Writer, s *styles, service *scanner.Service) error {
	findings, err := service.Findings()
	if err != nil {
		return fmt.Errorf("retrieving findings: %w", err)
	}
	fmt.Fprintf(out, "[%s]\n", time.Now().Format(time.TimeOnly))
	printFindings(out, s, findings)
	return nil
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/aitags/pkg/scanner"
	"github.com/praetorian-inc/aitags/pkg/serve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as streaming server for editor integration",
	Long: `Run aitags as a long-lived streaming server that accepts scan, resolve
and locate requests via stdin and answers via stdout using NDJSON format.

Editors send the unsaved text of a document with every scan request. The
process runs until stdin closes, a close request arrives or SIGTERM is
received.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resolver, err := newResolver(cfg, nil)
	if err != nil {
		return err
	}
	locator := newSymbolLocator(cfg)

	var coreOpts []scanner.CoreOption
	coreOpts = append(coreOpts, scanner.WithCoreLogger(logger))
	if cfg.Sync.CheckSymbols {
		coreOpts = append(coreOpts, scanner.WithSymbolLocator(locator))
	}
	core := scanner.NewCore(cfg.Scanner(), resolver, coreOpts...)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := serve.NewServer(core, resolver, cmd.InOrStdin(), cmd.OutOrStdout(),
		serve.WithSymbolLocator(locator),
		serve.WithLogger(logger))
	return srv.Run(ctx)
}

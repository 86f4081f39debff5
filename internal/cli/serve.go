// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/voxdraw/internal/diagram"
	"github.com/jeranaias/voxdraw/internal/server"
)

var (
	servePort        int
	serveDiagramName string
	serveVerbose     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the command engine over HTTP on localhost. Browser canvases
and transcription tools POST transcripts to /v1/commands; the diagram can
be exported, imported, and saved through the same API.

Set server.bearer_token in the config (or VOXDRAW_TOKEN) to require
authentication.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().StringVarP(&serveDiagramName, "diagram", "d", "", "Load a saved diagram at startup")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Development-style log output")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(serveVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open diagram database: %w", err)
	}
	defer store.Close()

	canvas := diagram.New()
	if serveDiagramName != "" {
		if err := loadInto(store, serveDiagramName, canvas); err != nil {
			return err
		}
	}

	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}

	srv := server.New(port, canvas, store, logger)
	srv.WithRateLimiter(server.NewRateLimiter(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst))
	if cfg.Server.BearerToken != "" {
		srv.WithAuth(&server.AuthConfig{
			Enabled:     true,
			BearerToken: cfg.Server.BearerToken,
		})
	}

	// Graceful shutdown on interrupt.
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	fmt.Printf("voxdraw API listening on 127.0.0.1:%d\n", port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

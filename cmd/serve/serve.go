// Package serve implements the serve command: the HTTP API with the poll
// loop running in the background.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/planwatch/cmd/common"
	"github.com/jonesrussell/planwatch/internal/logger"
	"github.com/jonesrussell/planwatch/internal/web"
)

const (
	errorChannelBufferSize = 1
	defaultShutdownTimeout = 30 * time.Second
)

// Command returns the serve command for use in the root command.
func Command() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the watch loop in the background",
		Long: `This command starts the HTTP server exposing the stored snapshots, the
rendered plan page and the watcher counters, and keeps the poll loop
running in the background using the stored config document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get dependencies
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			// Stop the loop and the server together on interrupt
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, s, err := cmdcommon.CreateWatcher(ctx, deps)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := s.Close(); closeErr != nil {
					deps.Logger.Error("failed to close store", "error", closeErr)
				}
			}()

			// The --port flag overrides the configured listen address
			serverCfg := deps.Config.GetServerConfig()
			if port > 0 {
				serverCfg.Address = fmt.Sprintf(":%d", port)
			}

			server, err := web.StartHTTPServer(deps.Logger, s, w, deps.Config)
			if err != nil {
				return fmt.Errorf("failed to create HTTP server: %w", err)
			}

			// Run the poll loop in the background. A zero interval means it
			// finishes after one cycle while the server keeps serving.
			go func() {
				if runErr := w.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
					deps.Logger.Error("watch loop stopped", "error", runErr)
				}
			}()

			deps.Logger.Info("Starting HTTP server", "addr", serverCfg.Address)
			errChan := make(chan error, errorChannelBufferSize)
			go func() {
				if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
					errChan <- serveErr
				}
			}()

			return runUntilInterrupt(ctx, deps.Logger, server, errChan)
		},
	}

	// Add --port flag
	cmd.Flags().IntVar(&port, "port", 0,
		"Override the configured listen port (0 means use the configured address)")

	return cmd
}

// runUntilInterrupt blocks until the server fails or the context is
// canceled, then shuts the server down gracefully.
func runUntilInterrupt(ctx context.Context, log logger.Interface, server *http.Server, errChan chan error) error {
	select {
	case serverErr := <-errChan:
		log.Error("Server error", "error", serverErr)
		return fmt.Errorf("server error: %w", serverErr)
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop server", "error", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	log.Info("Server stopped successfully")
	return nil
}

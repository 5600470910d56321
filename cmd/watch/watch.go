// Package watch implements the watch command: the polling loop that
// downloads the monitored pages and mails out detected changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/planwatch/cmd/common"
)

// Command returns the watch command for use in the root command.
func Command() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the watched pages and mail detected changes",
		Long: `This command downloads the lesson plan and the class cancellations page,
compares what it finds against the stored snapshots, and sends an e-mail
for every change. How often it repeats comes from the stored config
document: a fixed interval, a cron expression, or a single cycle when
the interval is zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get dependencies
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			// Stop the loop on interrupt so the store closes cleanly
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

			if once {
				err = w.RunOnce(ctx)
			} else {
				err = w.Run(ctx)
			}
			if errors.Is(err, context.Canceled) {
				deps.Logger.Info("watch loop stopped")
				return nil
			}
			return err
		},
	}

	// Add --once flag
	cmd.Flags().BoolVar(&once, "once", false,
		"Run a single poll cycle and exit, ignoring the configured interval")

	return cmd
}

// Package mail implements the mail command: a debug notification sent to
// every configured receiver so the SMTP settings can be verified.
package mail

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/planwatch/cmd/common"
	"github.com/jonesrussell/planwatch/internal/notify"
)

// Command returns the mail command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "mail",
		Short: "Send a debug e-mail to all configured receivers",
		Long: `This command sends a test message using the stored secret document.
A failure exits non-zero, so it can be used to verify SMTP credentials
before starting the watch loop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get dependencies
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			s, err := cmdcommon.CreateStore(cmd.Context(), deps.Config, deps.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := s.Close(); closeErr != nil {
					deps.Logger.Error("failed to close store", "error", closeErr)
				}
			}()

			notifier := notify.NewNotifier(s, notify.NewMailer(deps.Logger), deps.Logger)
			if err := notifier.Debug(cmd.Context()); err != nil {
				return fmt.Errorf("failed to send debug mail: %w", err)
			}

			deps.Logger.Info("ok: debug mail sent to all receivers")
			return nil
		},
	}
}

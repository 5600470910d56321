// Package reset implements the reset command: it discards every persisted
// document and recreates the factory defaults.
package reset

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/planwatch/cmd/common"
)

// Command returns the reset command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Recreate all documents from factory defaults",
		Long: `This command deletes the stored config, secret, plan and cancellations
documents and writes fresh defaults in their place. Edit the recreated
config and secret documents before the next watch run.`,
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

			if err := s.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset documents: %w", err)
			}

			deps.Logger.Info("ok: all documents recreated from defaults")
			return nil
		},
	}
}

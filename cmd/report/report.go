// Package report implements the report command: it renders the stored
// lesson plan comparison as a standalone HTML page.
package report

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/planwatch/cmd/common"
	reportpkg "github.com/jonesrussell/planwatch/internal/report"
)

// Command returns the report command for use in the root command.
func Command() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the current/previous plan comparison as HTML",
		Long: `This command renders the stored plan snapshot, the current timetable
next to the previous one, into a single HTML page.`,
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

			snap, err := s.Plan(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load plan snapshot: %w", err)
			}
			if err := reportpkg.Save(out, snap); err != nil {
				return err
			}

			deps.Logger.Info("ok: saved html file", "path", out)
			return nil
		},
	}

	// Add --out flag
	cmd.Flags().StringVar(&out, "out", reportpkg.DefaultPath, "Output path for the rendered page")

	return cmd
}

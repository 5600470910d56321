// Package status implements the status command. It prints the stored
// snapshot state, plan metadata, cancellation metadata and the current
// timetable grid, as formatted tables.
package status

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/planwatch/cmd/common"
	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/logger"
)

// TableRenderer handles the display of snapshot data in a table format
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new TableRenderer instance
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{
		logger: log,
	}
}

// RenderPlanMetadata formats and displays the plan snapshot's metadata.
func (r *TableRenderer) RenderPlanMetadata(snap *domain.PlanSnapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Plan", "Value"})
	t.AppendRow(table.Row{"iteration", snap.Metadata.CurrentIteration})
	t.AppendRow(table.Row{"color", snap.Metadata.CurrentColor})
	t.AppendRow(table.Row{"link", snap.Metadata.CurrentLink})
	t.AppendRow(table.Row{"last color change", snap.Metadata.LastChangeColor})
	t.AppendRow(table.Row{"last table change", snap.Metadata.LastChangeTable})
	t.AppendRow(table.Row{"last link change", snap.Metadata.LastChangeLink})
	t.AppendRow(table.Row{"colors recorded", len(snap.Metadata.PreviousColors)})
	t.AppendRow(table.Row{"links recorded", len(snap.Metadata.PreviousLinks)})

	t.Render()
}

// RenderCancelMetadata formats and displays the cancellation snapshot's
// metadata.
func (r *TableRenderer) RenderCancelMetadata(snap *domain.CancelSnapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Cancellations", "Value"})
	t.AppendRow(table.Row{"iteration", snap.Metadata.CurrentIteration})
	t.AppendRow(table.Row{"last change", snap.Metadata.LastChange})
	t.AppendRow(table.Row{"entries", len(snap.Current)})

	t.Render()
}

// RenderTimetable formats and displays the current timetable grid, one row
// per time slot.
func (r *TableRenderer) RenderTimetable(week *domain.WeekTable) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	columns := week.Columns()
	header := make(table.Row, 0, len(columns))
	for _, col := range columns {
		header = append(header, capitalize(col.Name))
	}
	t.AppendHeader(header)

	// Ragged columns render up to the shortest one
	slots := len(week.Time)
	for _, col := range columns {
		if len(col.Cells) < slots {
			slots = len(col.Cells)
		}
	}
	for slot := 0; slot < slots; slot++ {
		row := make(table.Row, 0, len(columns))
		for _, col := range columns {
			row = append(row, strings.ReplaceAll(col.Cells[slot], "\n", " / "))
		}
		t.AppendRow(row)
	}

	t.Render()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Command returns the status command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the stored snapshot state as tables",
		Long: `This command reads the stored plan and cancellations snapshots and
prints their metadata together with the current timetable grid.`,
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

			plan, err := s.Plan(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load plan snapshot: %w", err)
			}
			cancel, err := s.Cancel(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load cancellations snapshot: %w", err)
			}

			renderer := NewTableRenderer(deps.Logger)
			renderer.RenderPlanMetadata(plan)
			renderer.RenderCancelMetadata(cancel)
			renderer.RenderTimetable(&plan.Current)

			return nil
		},
	}
}

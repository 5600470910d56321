// Package cmd implements the command-line interface for planwatch.
// It provides the root command and subcommands for running the watch loop
// and inspecting the persisted documents.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/planwatch/cmd/mail"
	cmdreport "github.com/jonesrussell/planwatch/cmd/report"
	"github.com/jonesrussell/planwatch/cmd/reset"
	"github.com/jonesrussell/planwatch/cmd/serve"
	"github.com/jonesrussell/planwatch/cmd/status"
	"github.com/jonesrussell/planwatch/cmd/watch"
	"github.com/jonesrussell/planwatch/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the planwatch CLI.
	rootCmd = &cobra.Command{
		Use:   "planwatch",
		Short: "Watch a university lesson plan for changes",
		Long: `planwatch polls a university timetable page and the class cancellations
page, keeps the extracted facts in a document store, and mails the
configured receivers whenever something changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Parse flags early to get config and debug flags before Viper runs
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ~/.planwatch/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("planwatch version %s\n", viper.GetString("app.version"))
		},
	})

	// Add subcommands
	rootCmd.AddCommand(watch.Command())
	rootCmd.AddCommand(reset.Command())
	rootCmd.AddCommand(mail.Command())
	rootCmd.AddCommand(cmdreport.Command())
	rootCmd.AddCommand(status.Command())
	rootCmd.AddCommand(serve.Command())
}

// initConfig seeds Viper before any command reads configuration.
func initConfig() error {
	// An explicit config file wins over the default search paths
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	// Bind command-line flags to Viper so --debug reaches the logger setup
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}

	return config.InitializeViper()
}

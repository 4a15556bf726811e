// Package cli implements the coursecast command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/coursecast/coursecast/internal/app"
	"github.com/coursecast/coursecast/pkg/config"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	logger    *slog.Logger
	container *app.Container
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coursecast",
	Short: "Coursecast - live-class scheduling and reminders",
	Long: `Coursecast turns ordered content catalogs into rolling live-class
calendars and fires timed reminders to everyone with access.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		container, err = app.NewContainer(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if container != nil {
			container.Close()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(classCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(accessCmd)
	rootCmd.AddCommand(serveCmd)
}

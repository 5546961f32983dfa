package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/obsenv-labs/obsenv/internal/branding"
	"github.com/obsenv-labs/obsenv/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagEnvPath  string
	flagPackages string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` manages the observing environment: the set of control
and script packages that must be consistently set up on a host before the
telescope control software runs. It maintains the package registry,
generates the shell setup file, and records every action to the local
audit log and the telemetry store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		installLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvPath, "env-path", "", "Path to the observing environment (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagPackages, "packages", "", "Path to the package-list file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// installLogger points slog at stderr with the requested level.
func installLogger() {
	level := slog.LevelInfo
	switch strings.ToLower(flagLogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// Package main provides the venuerank CLI entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/venuerank/internal/config"
	"github.com/matsen/venuerank/internal/logger"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	humanOutput bool
	configPath  string
	logLevel    string
	logFormat   string
)

// Loaded by the root command before any subcommand runs.
var (
	cfg       *config.Config
	appLogger = slog.Default()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(err)
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "venuerank",
	Short: "Rank publication venues by CORE and SJR",
	Long: `venuerank resolves publication venues to quality tiers.

Conference papers are ranked against the CORE tables (A*, A, B, C) of the
edition matching their year. Journal articles are ranked by their SJR
quartile (Q1-Q4). Author publication lists can be pulled from DBLP after
confirming the author's identity against known paper titles.

Reference tables are read from the data directories in
~/.config/venuerank/config.yml (see 'venuerank config show').
All commands output JSON by default; use --human for text.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/venuerank/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
	rootCmd.Version = Version
}

// setup loads .env, the config file and the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return withExit(ExitConfigError, err)
	}

	c, err := config.Load(configPath)
	if err != nil {
		return withExit(ExitConfigError, err)
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if logFormat != "" {
		c.LogFormat = logFormat
	}
	if err := logger.ValidateFormat(c.LogFormat); err != nil {
		return withExit(ExitConfigError, err)
	}

	appLogger = logger.New(logger.Config{
		Writer: cmd.ErrOrStderr(),
		Format: c.LogFormat,
		Level:  logger.ParseLevel(c.LogLevel),
	})
	slog.SetDefault(appLogger)
	cfg = c

	appLogger.Debug("configuration loaded", "core_dir", c.CoreDir, "sjr_dir", c.SJRDir, "cache_db", c.CacheDB)
	return nil
}

// reportError prints err in the selected output format.
func reportError(err error) {
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return
	}
	outputJSON(os.Stdout, ErrorResponse{Error: err.Error(), Code: exitCodeFor(err)})
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matsen/venuerank/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `Show the effective configuration.

Settings are read from ~/.config/venuerank/config.yml (or --config), then
overridden by VENUERANK_* environment variables, which may also be set in a
.env file in the working directory.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !humanOutput {
			return outputJSON(cmd.OutOrStdout(), cfg)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.GlobalConfigPath()
		}
		if humanOutput {
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}
		return outputJSON(cmd.OutOrStdout(), map[string]string{"path": path})
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

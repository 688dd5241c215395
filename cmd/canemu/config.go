package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/canemu/internal/config"
)

var configForce bool

// configCmd groups config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the emulator config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write the default configuration to the config file so it can be edited.

An existing file is left alone unless --force is given.`,
	Example: `  # Write $XDG_CONFIG_HOME/canemu/config.yaml
  canemu config init

  # Write a project-local file, replacing any existing one
  canemu config init --config robot.yaml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initConfig(configPath, configForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the default config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configPath, "config", "", "Path to write (default: $XDG_CONFIG_HOME/canemu/config.yaml)")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig saves the default configuration to path, or to the default
// location when path is empty, and returns the path written.
func initConfig(path string, force bool) (string, error) {
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return "", err
		}
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("cannot access config file: %w", err)
		}
	}

	if err := config.Default().Save(path); err != nil {
		return "", err
	}
	return path, nil
}

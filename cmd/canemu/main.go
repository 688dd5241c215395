// Canemu emulates the CAN bus of a robot controller for off-robot testing.
//
// Firmware frames addressed to Talon SRX and Victor SPX motor controllers are
// decoded into device state held in a process-wide registry. The CLI can serve
// that state over HTTP/WebSocket, announce it over mDNS, mirror it to MQTT,
// and decode individual frames offline.
//
// Usage:
//
//	canemu [command] [flags]
//
// See 'canemu --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/canemu/internal/logging"
	"github.com/muurk/canemu/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "canemu",
	Short: "CAN bus device emulator",
	Long: `An emulator for the CAN bus seen by robot controller firmware.

Frames sent to Talon SRX and Victor SPX motor controllers are decoded into
device state (speed, inversion) and kept in a registry that debug tooling
can inspect.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $CANEMU_LOG_LEVEL")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "canemu %s\n", version.Full())
	},
}

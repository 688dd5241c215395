// Package logging provides structured logging for the CAN emulator.
//
// This package wraps a zap logger with convenience functions used by the bus
// entry points and the debug server. Every emulated library call is logged
// with its parameters, which is the main diagnostic surface of the emulator.
//
// # Log Levels
//
//   - Debug: Raw byte dumps
//   - Info: Bus calls, decoded device state, debug client connections
//   - Warn: Frames addressed to unknown devices, dropped client messages
//   - Error: Startup failures, publish failures
//
// # Structured Logging
//
//	logging.LogFrame("send_message", id, payload,
//	    zap.Int32("period_ms", periodMs),
//	)
//
// # Configuration
//
// Logging is silent unless a level is given, either explicitly or through
// the CANEMU_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Output goes to stderr so that CLI results on stdout stay machine-readable.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are meant to be called once at startup (or test setup) before concurrent use.
package logging

// Package config provides the emulator's YAML configuration.
//
// The configuration selects the log level, the debug server address, optional
// MQTT state publishing and a list of devices that exist before any firmware
// traffic. Command-line flags override file values.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/canemu/config.yaml or $HOME/.config/canemu/config.yaml
//   - macOS: $HOME/.config/canemu/config.yaml
//   - Windows: %LOCALAPPDATA%\canemu\config.yaml
//
// # Example
//
//	version: 1
//	log_level: info
//	server:
//	  host: ""
//	  port: 8087
//	  advertise: true
//	mqtt:
//	  broker: tcp://localhost:1883
//	  topic_prefix: robot/can
//	  qos: 1
//	devices:
//	  - type: TALON_SRX
//	    id: 1
//	  - type: VICTOR_SPX
//	    id: 2
//	    inverted: true
//
// # Thread Safety
//
// LoadDefault uses sync.Once for safe initialization across goroutines.
// Save is protected by a mutex and writes atomically via rename.
package config

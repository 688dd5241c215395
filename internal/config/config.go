package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/muurk/canemu/internal/can"
)

const (
	appName    = "canemu"
	configFile = "config.yaml"

	// DefaultPort is the default debug server port
	DefaultPort = 8087

	// DefaultTopicPrefix is the MQTT topic prefix used when none is configured
	DefaultTopicPrefix = "canemu"
)

var (
	// Global configuration (loaded lazily from the default path)
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigErr  error

	// Mutex for thread-safe file operations
	fileMutex sync.Mutex
)

// GetConfigDir returns the OS-appropriate configuration directory for the application.
//   - Linux: $XDG_CONFIG_HOME/canemu or $HOME/.config/canemu
//   - macOS: $HOME/.config/canemu
//   - Windows: %LOCALAPPDATA%\canemu
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the default configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// LoadDefault loads the configuration from the default path once per process.
func LoadDefault() (*Config, error) {
	globalConfigOnce.Do(func() {
		path, err := GetConfigPath()
		if err != nil {
			globalConfigErr = fmt.Errorf("failed to get config path: %w", err)
			return
		}
		globalConfig, globalConfigErr = Load(path)
	})
	return globalConfig, globalConfigErr
}

// Load reads and validates the configuration at path.
// A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the emulator cannot use.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d (expected 1)", c.Version)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.MQTT != nil {
		if c.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is configured")
		}
		if c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos %d out of range (0-2)", c.MQTT.QoS)
		}
	}

	seen := make(map[uint8]bool, len(c.Devices))
	for i, s := range c.Devices {
		if s.Type == can.Unknown {
			return fmt.Errorf("devices[%d]: type UNKNOWN cannot be seeded", i)
		}
		if uint32(s.ID) > can.IDMaskDeviceID {
			return fmt.Errorf("devices[%d]: id %d exceeds %d", i, s.ID, can.IDMaskDeviceID)
		}
		if seen[s.ID] {
			return fmt.Errorf("devices[%d]: duplicate id %d", i, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Save writes the configuration to path atomically.
func (c *Config) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# canemu configuration file
#
# Location: ` + path + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

package config

import "github.com/muurk/canemu/internal/can"

// Config represents the emulator configuration file.
type Config struct {
	Version  int          `yaml:"version"`
	LogLevel string       `yaml:"log_level,omitempty"` // debug, info, warn, error; empty = silent
	Server   ServerConfig `yaml:"server"`
	MQTT     *MQTTConfig  `yaml:"mqtt,omitempty"`    // State publishing (disabled when absent)
	Devices  []DeviceSeed `yaml:"devices,omitempty"` // Devices present before firmware sends anything
}

// ServerConfig configures the HTTP/WebSocket debug endpoint.
type ServerConfig struct {
	Host      string `yaml:"host"`               // Empty = all interfaces
	Port      int    `yaml:"port"`               // TCP port
	Advertise bool   `yaml:"advertise"`          // Announce over mDNS
	Instance  string `yaml:"instance,omitempty"` // mDNS instance name (defaults to hostname)
}

// MQTTConfig configures publishing of device state to a broker.
type MQTTConfig struct {
	Broker      string `yaml:"broker"` // e.g. tcp://localhost:1883
	ClientID    string `yaml:"client_id,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // Defaults to "canemu"
	QoS         byte   `yaml:"qos"`
}

// DeviceSeed is a device loaded into the registry at startup.
type DeviceSeed struct {
	Type     can.DeviceType `yaml:"type"`
	ID       uint8          `yaml:"id"`
	Speed    float64        `yaml:"speed,omitempty"`
	Inverted bool           `yaml:"inverted,omitempty"`
}

// Device converts the seed to device state.
func (s DeviceSeed) Device() can.Device {
	return can.Device{
		Type:     s.Type,
		ID:       s.ID,
		Speed:    s.Speed,
		Inverted: s.Inverted,
	}
}

// SeedDevices returns the configured seeds as device state.
func (c *Config) SeedDevices() []can.Device {
	out := make([]can.Device, 0, len(c.Devices))
	for _, s := range c.Devices {
		out = append(out, s.Device())
	}
	return out
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Port: DefaultPort,
		},
	}
}

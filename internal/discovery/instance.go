package discovery

import (
	"fmt"
	"time"
)

// Instance represents a running emulator found on the network
type Instance struct {
	// Name is the mDNS instance name (e.g., "robot-sim")
	Name string

	// Hostname is the mDNS hostname (e.g., "devbox.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 if no IPv4 was advertised
	IP string

	// Port is the debug server port
	Port int

	// Metadata contains the mDNS TXT record data ("version=...")
	Metadata map[string]string

	// DiscoveredAt is when the instance was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("canemu %s (%s) at %s:%d", i.Name, i.Hostname, i.IP, i.Port)
}

// BaseURL returns the HTTP base URL of the debug server
func (i *Instance) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", i.IP, i.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (i *Instance) GetMetadata(key string) string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata[key]
}

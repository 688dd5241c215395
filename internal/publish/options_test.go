package publish

import (
	"strings"
	"testing"

	"github.com/muurk/canemu/internal/config"
)

func configWithQoS(qos byte) config.MQTTConfig {
	return config.MQTTConfig{Broker: "tcp://127.0.0.1:1883", QoS: qos}
}

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(config.MQTTConfig{
		Broker:   "tcp://broker.local:1883",
		ClientID: "sim-1",
	})

	if len(opts.Servers) != 1 || opts.Servers[0].Host != "broker.local:1883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "sim-1" {
		t.Errorf("ClientID = %q, want sim-1", opts.ClientID)
	}
	if !opts.CleanSession || !opts.AutoReconnect {
		t.Error("expected clean session with auto-reconnect")
	}
}

func TestBuildClientOptionsGeneratesClientID(t *testing.T) {
	opts := buildClientOptions(configWithQoS(0))
	if !strings.HasPrefix(opts.ClientID, "canemu-") {
		t.Errorf("ClientID = %q, want canemu- prefix", opts.ClientID)
	}
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/canemu/internal/bus"
	"github.com/muurk/canemu/internal/can"
	"github.com/muurk/canemu/internal/config"
	"github.com/muurk/canemu/internal/discovery"
	"github.com/muurk/canemu/internal/logging"
	"github.com/muurk/canemu/internal/publish"
	"github.com/muurk/canemu/internal/registry"
	"github.com/muurk/canemu/internal/server"
	"github.com/muurk/canemu/internal/ui"
	"github.com/muurk/canemu/internal/version"
)

// Command flags
var (
	configPath  string
	host        string
	port        int
	advertise   bool
	instance    string
	mqttBroker  string
	mqttPrefix  string
	dataSize    int
	yamlOutput  bool
	scanTimeout int
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(discoverCmd)
}

// serveCmd runs the debug server over the process-wide registry
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the emulator debug server",
	Long: `Start the HTTP/WebSocket debug server over the emulated CAN bus.

Devices listed in the config file are loaded before the server starts.
WebSocket clients can send frames, query presence, and receive every
device update. Updates can also be mirrored to an MQTT broker and the
server can announce itself over mDNS.`,
	Example: `  # Serve with the default config file
  canemu serve

  # Serve on a custom port and announce over mDNS
  canemu serve --port 9000 --advertise

  # Mirror device state to a local broker
  canemu serve --mqtt-broker tcp://localhost:1883`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: $XDG_CONFIG_HOME/canemu/config.yaml)")
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", config.DefaultPort, "Listen port")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the server over mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (default: hostname)")
	serveCmd.Flags().StringVar(&mqttBroker, "mqtt-broker", "", "MQTT broker URL for state publishing (e.g. tcp://localhost:1883)")
	serveCmd.Flags().StringVar(&mqttPrefix, "mqtt-prefix", "", "MQTT topic prefix (default: canemu)")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	return config.Load(path)
}

// applyServeFlags copies explicitly set flags over file values.
func applyServeFlags(cfg *config.Config, changed func(name string) bool) {
	if changed("host") {
		cfg.Server.Host = host
	}
	if changed("port") {
		cfg.Server.Port = port
	}
	if changed("advertise") {
		cfg.Server.Advertise = advertise
	}
	if changed("instance") {
		cfg.Server.Instance = instance
	}
	if changed("mqtt-broker") || changed("mqtt-prefix") {
		if cfg.MQTT == nil {
			cfg.MQTT = &config.MQTTConfig{}
		}
		if changed("mqtt-broker") {
			cfg.MQTT.Broker = mqttBroker
		}
		if changed("mqtt-prefix") {
			cfg.MQTT.TopicPrefix = mqttPrefix
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	applyServeFlags(cfg, cmd.Flags().Changed)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Flag, then environment, then file
	if logLevel == "" && os.Getenv(logging.LogLevelEnvVar) == "" && cfg.LogLevel != "" {
		if err := logging.Initialize(cfg.LogLevel); err != nil {
			return err
		}
	}

	emu := bus.New(registry.Instance())
	if n := emu.Seed(cfg.SeedDevices()); n > 0 {
		logging.Info("Loaded devices from config", zap.Int("count", n))
	}

	if cfg.MQTT != nil {
		pub, err := publish.Connect(*cfg.MQTT)
		if err != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		defer pub.Close()
		emu.AddObserver(pub)
	}

	srv := server.New(&server.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, emu)
	if err := srv.Listen(); err != nil {
		return err
	}

	if cfg.Server.Advertise {
		adv, err := discovery.Advertise(cfg.Server.Instance, srv.Port(), version.Version)
		if err != nil {
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			defer adv.Shutdown()
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "canemu debug server listening on port %d\n", srv.Port())
	return srv.Run()
}

// decodeCmd classifies a message id and optionally decodes a payload
var decodeCmd = &cobra.Command{
	Use:   "decode <message-id> [byte...]",
	Short: "Decode a CAN frame without touching any registry",
	Long: `Classify a CAN message id and, when payload bytes are given, show the
device state the frame carries.

Numbers accept any Go integer literal form (0x02040005, 33816581, 0b101).`,
	Example: `  # Classify a message id
  canemu decode 0x02040005

  # Decode a speed frame for Victor SPX 3
  canemu decode 0x01040003 0x00 0x40 0x00 0x00 0 0 0 0x04

  # Machine-readable output
  canemu decode 0x02040005 0 64 0 0 0 0 0 0x04 --yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().IntVar(&dataSize, "size", -1, "Payload length to use (default: number of bytes given)")
	decodeCmd.Flags().BoolVar(&yamlOutput, "yaml", false, "Print the result as YAML")
}

// frameReport is the YAML form of a decoded frame.
type frameReport struct {
	MessageID string             `yaml:"message_id"`
	Known     bool               `yaml:"known"`
	Device    *config.DeviceSeed `yaml:"device,omitempty"`
}

func parseMessageID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid message id %q: %w", s, err)
	}
	return uint32(v), nil
}

func parsePayload(args []string) ([]byte, error) {
	data := make([]byte, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseUint(a, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid payload byte %q: %w", a, err)
		}
		data = append(data, byte(v))
	}
	return data, nil
}

func payloadSize(data []byte, size int) (uint8, error) {
	if size < 0 {
		size = len(data)
	}
	if size > 255 {
		return 0, fmt.Errorf("payload size %d exceeds 255", size)
	}
	return uint8(size), nil
}

// parseFrame turns CLI arguments into a message id and payload.
func parseFrame(args []string, size int) (uint32, []byte, uint8, error) {
	messageID, err := parseMessageID(args[0])
	if err != nil {
		return 0, nil, 0, err
	}
	data, err := parsePayload(args[1:])
	if err != nil {
		return 0, nil, 0, err
	}
	n, err := payloadSize(data, size)
	if err != nil {
		return 0, nil, 0, err
	}
	return messageID, data, n, nil
}

func decodeFrame(messageID uint32, data []byte, size uint8) (frameReport, error) {
	report := frameReport{MessageID: fmt.Sprintf("0x%08x", messageID)}
	dev, ok, err := bus.Decode(messageID, data, size)
	if err != nil {
		return report, err
	}
	if ok {
		report.Known = true
		report.Device = &config.DeviceSeed{
			Type:     dev.Type,
			ID:       dev.ID,
			Speed:    dev.Speed,
			Inverted: dev.Inverted,
		}
	}
	return report, nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	messageID, data, size, err := parseFrame(args, dataSize)
	if err != nil {
		return err
	}

	report, err := decodeFrame(messageID, data, size)
	if err != nil {
		if yamlOutput {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.NewFailureResult("Decode failed", err).Render())
		return err
	}

	out := cmd.OutOrStdout()
	if yamlOutput {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	}

	if !report.Known {
		fmt.Fprintln(out, ui.NewWarningResult("Unknown device",
			ui.Param{Key: "Message ID", Value: report.MessageID},
		).Render())
		return nil
	}

	d := report.Device
	fmt.Fprintln(out, ui.NewSuccessResult("Frame decoded",
		ui.Param{Key: "Message ID", Value: report.MessageID},
		ui.Param{Key: "Type", Value: d.Type.String()},
		ui.Param{Key: "Device ID", Value: strconv.Itoa(int(d.ID))},
		ui.Param{Key: "Speed", Value: fmt.Sprintf("%f", d.Speed)},
		ui.Param{Key: "Inverted", Value: strconv.FormatBool(d.Inverted)},
	).Render())
	return nil
}

// sendCmd runs a frame through a private emulator and prints the registry
var sendCmd = &cobra.Command{
	Use:   "send <message-id> [byte...]",
	Short: "Send a frame to an offline emulator and show the registry",
	Long: `Send one frame through the bus entry point of an emulator with its own
registry, seeded from the config file when --config is given, then print
every device it holds.`,
	Example: `  # Set Talon SRX 5 to speed 16 and inverted
  canemu send 0x02040005 0 64 0 0 0 0 0 0x44

  # Start from the devices in a config file
  canemu send 0x01040002 0 0 0 0 0 0 0 0x04 --config robot.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&configPath, "config", "", "Config file whose devices seed the registry")
	sendCmd.Flags().IntVar(&dataSize, "size", -1, "Payload length to use (default: number of bytes given)")
}

// sendFrame sends one frame to emu and returns the resulting registry.
func sendFrame(emu *bus.Emulator, messageID uint32, data []byte, size uint8) ([]can.Device, error) {
	if err := emu.SendMessage(messageID, data, size, 0); err != nil {
		return nil, err
	}
	return emu.Snapshot(), nil
}

func runSend(cmd *cobra.Command, args []string) error {
	messageID, data, size, err := parseFrame(args, dataSize)
	if err != nil {
		return err
	}

	emu := bus.New(registry.New())
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		emu.Seed(cfg.SeedDevices())
	}

	devices, err := sendFrame(emu, messageID, data, size)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), ui.NewFailureResult("Send failed", err).Render())
		return err
	}

	width := ui.GetTerminalWidth()
	hexBytes := make([]string, len(data))
	for i, b := range data {
		hexBytes[i] = fmt.Sprintf("%02x", b)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.NewHeader("Device State", "canemu send",
		ui.Param{Key: "Message ID", Value: fmt.Sprintf("0x%08x", messageID)},
		ui.Param{Key: "Payload", Value: strings.Join(hexBytes, " ")},
	).SetWidth(width).Render())
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderDeviceTable(devices, width))
	return nil
}

// discoverCmd browses for running emulators
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find emulator debug servers on the local network",
	Long:  `Browse mDNS for emulators started with 'canemu serve --advertise'.`,
	Example: `  # Scan for 5 seconds (default)
  canemu discover

  # Longer scan for busy networks
  canemu discover --timeout 15`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Scanning for canemu instances (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second
	instances, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderInstanceTable(instances, ui.GetTerminalWidth()))
	return nil
}

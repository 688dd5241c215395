package bus

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/canemu/internal/can"
	"github.com/muurk/canemu/internal/logging"
	"github.com/muurk/canemu/internal/registry"
)

// Emulator implements Bus against a device registry.
type Emulator struct {
	registry *registry.Registry

	mu        sync.RWMutex
	observers []Observer
}

var _ Bus = (*Emulator)(nil)

// Option configures an Emulator.
type Option func(*Emulator)

// WithObserver registers o to be notified of every stored device update.
func WithObserver(o Observer) Option {
	return func(e *Emulator) {
		e.observers = append(e.observers, o)
	}
}

// New creates an Emulator over r. A nil r selects the process-wide registry.
func New(r *registry.Registry, opts ...Option) *Emulator {
	if r == nil {
		r = registry.Instance()
	}
	e := &Emulator{registry: r}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddObserver registers o after construction.
func (e *Emulator) AddObserver(o Observer) {
	e.mu.Lock()
	e.observers = append(e.observers, o)
	e.mu.Unlock()
}

// SendMessage implements Bus.
func (e *Emulator) SendMessage(messageID uint32, data []byte, dataSize uint8, periodMs int32) error {
	logging.LogFrame("send_message", messageID, clip(data, int(dataSize)),
		zap.Uint8("data_size", dataSize),
		zap.Int32("period_ms", periodMs),
	)

	dev, ok, err := Decode(messageID, data, dataSize)
	if err != nil {
		return fmt.Errorf("send message 0x%08x: %w", messageID, err)
	}
	if !ok {
		logging.Warn("Attempting to write message to unknown CAN device",
			logging.MessageID(messageID),
		)
		return nil
	}

	// Observers run before release so they see updates in lock order.
	h, release := e.registry.Acquire()
	defer release()
	h.Upsert(dev.ID, dev)

	logging.Info("CAN device updated", zap.Stringer("device", dev))
	e.notify(dev)
	return nil
}

// ReceiveMessage implements Bus.
func (e *Emulator) ReceiveMessage(messageID uint32, messageIDMask uint32) bool {
	deviceID := can.PullDeviceID(messageID)

	h, release := e.registry.Acquire()
	_, found := h.Lookup(deviceID)
	release()

	logging.Info("receive_message",
		logging.MessageID(messageID),
		zap.String("message_id_mask", fmt.Sprintf("0x%08x", messageIDMask)),
		zap.Uint8("device_id", deviceID),
		zap.Bool("found", found),
	)
	return found
}

// OpenStreamSession implements Bus. Sessions are not emulated.
func (e *Emulator) OpenStreamSession(messageID uint32, messageIDMask uint32, maxMessages uint32) {
	logging.Info("open_stream_session",
		logging.MessageID(messageID),
		zap.String("message_id_mask", fmt.Sprintf("0x%08x", messageIDMask)),
		zap.Uint32("max_messages", maxMessages),
	)
}

// CloseStreamSession implements Bus. Sessions are not emulated.
func (e *Emulator) CloseStreamSession(sessionHandle uint32) {
	logging.Info("close_stream_session",
		zap.Uint32("session_handle", sessionHandle),
	)
}

// ReadStreamSession implements Bus. Sessions are not emulated.
func (e *Emulator) ReadStreamSession(sessionHandle uint32, messagesToRead uint32) {
	logging.Info("read_stream_session",
		zap.Uint32("session_handle", sessionHandle),
		zap.Uint32("messages_to_read", messagesToRead),
	)
}

// GetCANStatus implements Bus.
func (e *Emulator) GetCANStatus() (Status, error) {
	return Status{}, fmt.Errorf("get CAN status: %w", ErrUnsupported)
}

// Snapshot returns every stored device ordered by id.
func (e *Emulator) Snapshot() []can.Device {
	var devs []can.Device
	e.View(func(d []can.Device) { devs = d })
	return devs
}

// View calls fn with every stored device while the registry is held. No
// update is stored or reported to observers until fn returns.
func (e *Emulator) View(fn func(devs []can.Device)) {
	h, release := e.registry.Acquire()
	defer release()
	fn(h.Devices())
}

// Seed stores devs in one critical section. Devices of unknown type are
// skipped.
func (e *Emulator) Seed(devs []can.Device) int {
	h, release := e.registry.Acquire()
	defer release()

	stored := 0
	for _, d := range devs {
		if d.Type == can.Unknown {
			continue
		}
		h.Upsert(d.ID, d)
		stored++
		logging.Info("CAN device seeded", zap.Stringer("device", d))
		e.notify(d)
	}
	return stored
}

func (e *Emulator) notify(dev can.Device) {
	e.mu.RLock()
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.RUnlock()

	for _, o := range observers {
		o.DeviceUpdated(dev)
	}
}

func clip(data []byte, n int) []byte {
	if n < len(data) {
		return data[:n]
	}
	return data
}

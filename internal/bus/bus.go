package bus

import (
	"errors"

	"github.com/muurk/canemu/internal/can"
	"github.com/muurk/canemu/internal/logging"
)

// ErrUnsupported is returned by calls the emulator never implements.
var ErrUnsupported = errors.New("bus: unsupported operation")

// Bus is the CAN session-mux call surface consumed by firmware.
type Bus interface {
	// SendMessage transmits a frame to the device addressed by messageID.
	// dataSize bytes of data form the payload. periodMs is the repeat period
	// requested by the caller and is only logged.
	SendMessage(messageID uint32, data []byte, dataSize uint8, periodMs int32) error

	// ReceiveMessage reports whether a device with the id encoded in messageID
	// has been seen. No payload is returned.
	ReceiveMessage(messageID uint32, messageIDMask uint32) bool

	OpenStreamSession(messageID uint32, messageIDMask uint32, maxMessages uint32)
	CloseStreamSession(sessionHandle uint32)
	ReadStreamSession(sessionHandle uint32, messagesToRead uint32)

	// GetCANStatus always fails with ErrUnsupported.
	GetCANStatus() (Status, error)
}

// Status mirrors the bus health counters of the real library.
type Status struct {
	PercentBusUtilization float32
	BusOffCount           uint32
	TxFullCount           uint32
	ReceiveErrorCount     uint32
	TransmitErrorCount    uint32
}

// Observer is notified after a device state is stored, while the registry
// is still held. Updates for one id arrive in the order they were stored.
// DeviceUpdated must not block or call back into the Emulator.
type Observer interface {
	DeviceUpdated(dev can.Device)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(dev can.Device)

// DeviceUpdated calls f(dev).
func (f ObserverFunc) DeviceUpdated(dev can.Device) { f(dev) }

// Decode builds the device state carried by one frame without touching any
// registry. ok is false when messageID addresses no known controller.
func Decode(messageID uint32, data []byte, dataSize uint8) (dev can.Device, ok bool, err error) {
	dev = can.FromMessageID(messageID)
	if dev.Type == can.Unknown {
		return dev, false, nil
	}

	var window can.MessageData
	if err := window.CopyFrom(data, int(dataSize)); err != nil {
		return can.Device{}, false, err
	}
	command, err := window.Command()
	if err != nil {
		return can.Device{}, false, err
	}
	logging.LogWindow(messageID, window.Bytes(), command)

	if can.CommandByteHasFlag(command, can.SetPowerPercent) {
		if err := dev.SetSpeed(window); err != nil {
			return can.Device{}, false, err
		}
	}
	// Inversion is only ever switched on by a frame.
	if can.CommandByteHasFlag(command, can.SetInverted) {
		dev.SetInverted(true)
	}
	return dev, true, nil
}

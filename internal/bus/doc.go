// Package bus emulates the CAN session-mux library surface used by robot
// firmware.
//
// Bus has one method per library call. Emulator implements it on top of a
// device registry: SendMessage decodes frames addressed to motor controllers
// and stores the resulting state, ReceiveMessage probes the registry for a
// device. Stream sessions are accepted and logged but carry no traffic, and
// GetCANStatus always fails with ErrUnsupported.
//
// Frames for identifiers that match no known controller are dropped with a
// warning, the same way a real bus ignores frames nobody listens to.
//
// # Usage Example
//
//	emu := bus.New(registry.Instance())
//	id := can.MessageID(can.TalonSRX, 3)
//	payload := []byte{0, 1, 0, 0, 0, 0, 0, can.SetPowerPercent}
//	if err := emu.SendMessage(id, payload, uint8(len(payload)), 10); err != nil {
//	    return err
//	}
//	present := emu.ReceiveMessage(id, 0x1FFFFFFF) // true
package bus

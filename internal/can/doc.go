// Package can decodes CAN session-mux traffic for emulated motor controllers.
//
// A 32-bit message identifier carries the controller type and the device
// number in fixed bit fields. The payload is an 8-byte window whose last byte
// is a command byte: individual bits select which state the frame updates.
//
// # Identifier Layout
//
//	bits 24-28  device type  (2 = motor controller)
//	bits 16-23  manufacturer (4 = CTR Electronics)
//	bits  6-15  API class/index (ignored by the emulator)
//	bits  0-5   device number
//
// The controller family is recognised from the type and manufacturer bits:
//
//	VICTOR_SPX  0x01040000
//	TALON_SRX   0x02040000
//
// VICTOR_SPX is tested first, so an identifier matching both patterns would
// decode as VICTOR_SPX.
//
// # Payload Layout
//
//	[0]    speed zero reference
//	[1..3] speed digits (256^2, 256, 1), each relative to [0] modulo 256
//	[7]    command byte (0x04 = set power percent, 0x40 = set inverted)
//
// # Usage Example
//
//	dev := can.FromMessageID(id)
//	if dev.Type == can.Unknown {
//	    return
//	}
//	var window can.MessageData
//	if err := window.CopyFrom(payload, len(payload)); err != nil {
//	    return err
//	}
//	if err := dev.SetSpeed(window); err != nil {
//	    return err
//	}
//	fmt.Println(dev) // (type:TALON_SRX, id:3, speed:0.250000, inverted:false)
package can

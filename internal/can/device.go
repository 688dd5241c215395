package can

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/canemu/internal/textkv"
)

// DeviceType identifies the controller family behind a device number.
type DeviceType uint8

const (
	Unknown DeviceType = iota
	TalonSRX
	VictorSPX
)

// Speed decode geometry: bytes [0..3] of the payload, scaled so the full
// three-digit span maps onto [0, 64).
const (
	speedRefByte = 0
	speedScale   = 256 * 256 * 4
)

// String returns the wire name of the type. Values outside the enum are a
// programming error and panic.
func (t DeviceType) String() string {
	switch t {
	case TalonSRX:
		return "TALON_SRX"
	case VictorSPX:
		return "VICTOR_SPX"
	case Unknown:
		return "UNKNOWN"
	default:
		panic(fmt.Sprintf("can: unhandled device type %d", uint8(t)))
	}
}

// ParseDeviceType is the inverse of DeviceType.String.
func ParseDeviceType(s string) (DeviceType, error) {
	switch s {
	case "TALON_SRX":
		return TalonSRX, nil
	case "VICTOR_SPX":
		return VictorSPX, nil
	case "UNKNOWN":
		return Unknown, nil
	default:
		return Unknown, &Error{
			Type:    ErrTypeUnrecognizedVariant,
			Message: fmt.Sprintf("device type %q", s),
		}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t DeviceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *DeviceType) UnmarshalText(text []byte) error {
	parsed, err := ParseDeviceType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Device is the emulated state of one motor controller.
//
// ID, Speed and Inverted are only meaningful when Type is not Unknown.
type Device struct {
	Type     DeviceType
	ID       uint8
	Speed    float64
	Inverted bool
}

// FromMessageID decodes type and, for recognised controllers, the device id.
func FromMessageID(messageID uint32) Device {
	d := Device{Type: PullDeviceType(messageID)}
	if d.Type != Unknown {
		d.ID = PullDeviceID(messageID)
	}
	return d
}

// SetSpeed decodes the commanded output from the payload window.
//
// Each of bytes 1..3 is taken relative to byte 0 with 8-bit wraparound and
// weighted 65536, 256 and 1. The sum is divided by 262144 and is not clamped:
// [0, 64, 0, 0] yields 16.0.
func (d *Device) SetSpeed(data MessageData) error {
	ref, err := data.At(speedRefByte)
	if err != nil {
		return err
	}
	var digits [3]int
	for i := range digits {
		b, err := data.At(speedRefByte + 1 + i)
		if err != nil {
			return err
		}
		digits[i] = int(b - ref)
	}
	raw := digits[0]*256*256 + digits[1]*256 + digits[2]
	d.Speed = float64(raw) / speedScale
	return nil
}

// SetInverted sets the output polarity flag.
func (d *Device) SetInverted(inverted bool) {
	d.Inverted = inverted
}

// String returns a debug representation of the device
func (d Device) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "(type:%s, id:%d", d.Type, d.ID)
	if d.Type != Unknown {
		fmt.Fprintf(&b, ", speed:%f, inverted:%t", d.Speed, d.Inverted)
	}
	b.WriteString(")")
	return b.String()
}

// Serialize encodes the device as flat key/value text in the fixed order
// type, id, speed, inverted. Speed uses the shortest exact representation.
func (d Device) Serialize() string {
	return fmt.Sprintf(`{"type":%s,"id":%d,"speed":%s,"inverted":%t}`,
		textkv.Quote(d.Type.String()),
		d.ID,
		strconv.FormatFloat(d.Speed, 'f', -1, 64),
		d.Inverted,
	)
}

// Deserialize parses text produced by Serialize. Every key is required.
func Deserialize(text string) (Device, error) {
	var d Device

	raw, err := pull(`"type"`, text)
	if err != nil {
		return Device{}, err
	}
	name, err := textkv.Unquote(raw)
	if err != nil {
		return Device{}, parseError("type", raw, err)
	}
	if d.Type, err = ParseDeviceType(name); err != nil {
		return Device{}, err
	}

	if raw, err = pull(`"id"`, text); err != nil {
		return Device{}, err
	}
	id, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return Device{}, parseError("id", raw, err)
	}
	d.ID = uint8(id)

	if raw, err = pull(`"speed"`, text); err != nil {
		return Device{}, err
	}
	if d.Speed, err = strconv.ParseFloat(raw, 64); err != nil {
		return Device{}, parseError("speed", raw, err)
	}

	if raw, err = pull(`"inverted"`, text); err != nil {
		return Device{}, err
	}
	if d.Inverted, err = strconv.ParseBool(raw); err != nil {
		return Device{}, parseError("inverted", raw, err)
	}

	return d, nil
}

func pull(key, text string) (string, error) {
	v, err := textkv.PullValue(key, text)
	if err != nil {
		return "", &Error{Type: ErrTypeParse, Message: "missing key " + key, Err: err}
	}
	return v, nil
}

func parseError(field, raw string, err error) error {
	return &Error{
		Type:    ErrTypeParse,
		Message: fmt.Sprintf("field %s: invalid value %q", field, raw),
		Err:     err,
	}
}

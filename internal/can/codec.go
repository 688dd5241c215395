package can

// Identifier masks and controller type codes.
const (
	IDMaskDeviceID   uint32 = 0x0000003F // bits 0-5
	IDMaskDeviceType uint32 = 0x1FFF0000 // device type + manufacturer

	VictorSPXType uint32 = 0x01040000
	TalonSRXType  uint32 = 0x02040000
)

// Command byte flags.
const (
	SetPowerPercent uint8 = 0x04
	SetInverted     uint8 = 0x40
)

// CompareBits reports whether a and b agree on every bit selected by mask.
func CompareBits(a, b, mask uint32) bool {
	return a&mask == b&mask
}

// PullDeviceID extracts the device number from a message identifier.
func PullDeviceID(messageID uint32) uint8 {
	return uint8(messageID & IDMaskDeviceID)
}

// PullDeviceType classifies a message identifier. VICTOR_SPX takes priority
// over TALON_SRX.
func PullDeviceType(messageID uint32) DeviceType {
	return classify(messageID, VictorSPXType, TalonSRXType, IDMaskDeviceType)
}

// classify matches messageID against the type codes in priority order.
func classify(messageID, victor, talon, mask uint32) DeviceType {
	if CompareBits(messageID, victor, mask) {
		return VictorSPX
	}
	if CompareBits(messageID, talon, mask) {
		return TalonSRX
	}
	return Unknown
}

// CommandByteHasFlag reports whether any bit of flag is set in b.
func CommandByteHasFlag(b, flag uint8) bool {
	return b&flag != 0
}

// MessageID builds an identifier addressing device id of type t. Unknown
// produces an identifier whose type bits match no controller.
func MessageID(t DeviceType, id uint8) uint32 {
	base := uint32(id) & IDMaskDeviceID
	switch t {
	case TalonSRX:
		return TalonSRXType | base
	case VictorSPX:
		return VictorSPXType | base
	default:
		return base
	}
}

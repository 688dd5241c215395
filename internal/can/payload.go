package can

// Payload window geometry.
const (
	MessageDataSize = 8
	CommandByte     = 7
)

// MessageData is the fixed 8-byte payload window of a classical CAN frame.
// Every accessor is bounds-checked and fails with ErrOutOfBounds instead of
// reading or writing past the window.
type MessageData struct {
	bytes [MessageDataSize]byte
}

// NewMessageData copies src into a fresh window.
func NewMessageData(src []byte) (MessageData, error) {
	var m MessageData
	err := m.CopyFrom(src, len(src))
	return m, err
}

// CopyFrom copies the first n bytes of src into the start of the window.
// The window is left untouched on failure.
func (m *MessageData) CopyFrom(src []byte, n int) error {
	if n < 0 || n > MessageDataSize {
		return outOfBounds(n-1, MessageDataSize)
	}
	if n > len(src) {
		return outOfBounds(n-1, len(src))
	}
	copy(m.bytes[:n], src[:n])
	return nil
}

// At returns the byte at index i.
func (m MessageData) At(i int) (byte, error) {
	if i < 0 || i >= MessageDataSize {
		return 0, outOfBounds(i, MessageDataSize)
	}
	return m.bytes[i], nil
}

// Set stores b at index i.
func (m *MessageData) Set(i int, b byte) error {
	if i < 0 || i >= MessageDataSize {
		return outOfBounds(i, MessageDataSize)
	}
	m.bytes[i] = b
	return nil
}

// Command returns the command byte.
func (m MessageData) Command() (byte, error) {
	return m.At(CommandByte)
}

// Bytes returns a copy of the whole window.
func (m MessageData) Bytes() []byte {
	out := make([]byte, MessageDataSize)
	copy(out, m.bytes[:])
	return out
}

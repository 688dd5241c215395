package can

import "fmt"

// ErrorType represents the category of a decode failure
type ErrorType int

const (
	// ErrTypeUnrecognizedVariant indicates text that names no enum value
	ErrTypeUnrecognizedVariant ErrorType = iota
	// ErrTypeOutOfBounds indicates access past a fixed-capacity window
	ErrTypeOutOfBounds
	// ErrTypeParse indicates malformed serialized device text
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeUnrecognizedVariant:
		return "Unrecognized Variant"
	case ErrTypeOutOfBounds:
		return "Out Of Bounds"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every failing operation in this package.
// errors.Is matches on Type, so callers can test against the sentinels below.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

// Sentinels for errors.Is.
var (
	ErrUnrecognizedVariant = &Error{Type: ErrTypeUnrecognizedVariant}
	ErrOutOfBounds         = &Error{Type: ErrTypeOutOfBounds}
	ErrParse               = &Error{Type: ErrTypeParse}
)

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	if e.Message == "" {
		return e.Type.String()
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Type == e.Type
}

func outOfBounds(index, size int) error {
	return &Error{
		Type:    ErrTypeOutOfBounds,
		Message: fmt.Sprintf("index %d outside window of size %d", index, size),
	}
}

package canusb

import (
	"fmt"
)

// LengthError reports a CAN data length outside 0-8. It is raised before any
// I/O takes place.
type LengthError struct {
	Length int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("data length %d out of range 0-8", e.Length)
}

// UnknownCommandError reports a command outside the catalog.
type UnknownCommandError struct {
	Cmd Command
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %d", int(e.Cmd))
}

// DecodeError reports a reply that could not be decoded: shorter than the
// command's fixed width, or a field that was not valid hex.
type DecodeError struct {
	Cmd   string
	Want  int
	Got   int
	cause error
}

func (e *DecodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("decode %s reply: %v", e.Cmd, e.cause)
	}
	return fmt.Sprintf("decode %s reply: got %d bytes, want %d", e.Cmd, e.Got, e.Want)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// ProtocolError reports an unparseable receive stream: an unexpected tag
// byte, a malformed field, or a missing frame terminator. It is fatal to the
// current receive session; the stream position can no longer be trusted.
type ProtocolError struct {
	Byte   byte
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s (got 0x%02X)", e.Reason, e.Byte)
}

// InitError reports the first initialization step whose reply was not the
// terminator byte. Steps are numbered from zero in sequence order. The
// adapter is left in an undefined state; recovery requires a full external
// reset rather than a partial retry.
type InitError struct {
	Step int
	Name string
	Got  byte
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init step %d (%s): got 0x%02X, want 0x%02X", e.Step, e.Name, e.Got, CR)
}

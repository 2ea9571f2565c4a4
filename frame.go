package canusb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Standard identifiers carry 11 bits, extended identifiers 29. Out-of-range
// identifiers are masked to the low bits on encode, never rejected; lengths
// outside 0-8 are rejected, never masked.
const (
	StandardIDMask = 0x7FF
	ExtendedIDMask = 0x1FFFFFFF
)

// Frame is a single CAN data frame.
type Frame struct {
	Identifier uint32
	Extended   bool
	Data       []byte
}

// NewFrame creates a standard (11-bit) frame and copies the data slice.
func NewFrame(identifier uint32, data []byte) *Frame {
	d := make([]byte, len(data))
	copy(d, data)
	return &Frame{Identifier: identifier, Data: d}
}

// NewExtendedFrame creates an extended (29-bit) frame and copies the data
// slice.
func NewExtendedFrame(identifier uint32, data []byte) *Frame {
	f := NewFrame(identifier, data)
	f.Extended = true
	return f
}

// DLC returns the data length code.
func (f *Frame) DLC() int {
	return len(f.Data)
}

const lowerhex = "0123456789abcdef"

// MarshalWire renders the frame as a LAWICEL transmit command without the
// trailing terminator: tag, fixed-width identifier, one DLC digit, data as
// hex. Fails with *LengthError when the frame holds more than 8 bytes.
func (f *Frame) MarshalWire() ([]byte, error) {
	if len(f.Data) > 8 {
		return nil, &LengthError{Length: len(f.Data)}
	}

	idWidth := 3
	tag := byte('t')
	id := f.Identifier & StandardIDMask
	if f.Extended {
		idWidth = 8
		tag = 'T'
		id = f.Identifier & ExtendedIDMask
	}

	out := make([]byte, 0, 1+idWidth+1+2*len(f.Data))
	out = append(out, tag)
	for i := idWidth - 1; i >= 0; i-- {
		out = append(out, lowerhex[(id>>(4*uint(i)))&0xF])
	}
	out = append(out, '0'+byte(len(f.Data)))
	for _, b := range f.Data {
		out = append(out, lowerhex[b>>4], lowerhex[b&0xF])
	}
	return out, nil
}

func (f *Frame) String() string {
	var out strings.Builder
	if f.Extended {
		out.WriteString(fmt.Sprintf("0x%08X", f.Identifier))
	} else {
		out.WriteString(fmt.Sprintf("0x%03X", f.Identifier))
	}
	out.WriteString(" || ")
	out.WriteString(strconv.Itoa(len(f.Data)))
	out.WriteString(" || ")
	out.WriteString(fmt.Sprintf("%-23s", hexView(f.Data)))
	out.WriteString(" || ")
	out.WriteString(onlyPrintable(f.Data))
	return out.String()
}

var (
	green  = color.New(color.FgGreen).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
	yellow = color.New(color.FgHiBlue).SprintfFunc()
)

// ColorString renders the frame like String with ANSI colors for terminals.
func (f *Frame) ColorString() string {
	var out strings.Builder
	if f.Extended {
		out.WriteString(green("0x%08X", f.Identifier))
	} else {
		out.WriteString(green("0x%03X", f.Identifier))
	}
	out.WriteString(" || ")
	out.WriteString(strconv.Itoa(len(f.Data)))
	out.WriteString(" || ")
	out.WriteString(red(fmt.Sprintf("%-23s", hexView(f.Data))))
	out.WriteString(" || ")
	out.WriteString(yellow(onlyPrintable(f.Data)))
	return out.String()
}

func hexView(data []byte) string {
	var out strings.Builder
	for i, b := range data {
		out.WriteString(fmt.Sprintf("%02X", b))
		if i != len(data)-1 {
			out.WriteString(" ")
		}
	}
	return out.String()
}

func onlyPrintable(data []byte) string {
	var out strings.Builder
	for _, b := range data {
		if b < 32 || b > 127 {
			out.WriteString("·")
		} else {
			out.WriteByte(b)
		}
	}
	return out.String()
}

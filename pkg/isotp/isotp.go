// Package isotp implements the transmit-direction segmentation of ISO-TP
// (ISO 15765-2): splitting a payload into Single, First and Consecutive
// segments that each fit a classic CAN frame. The Flow segment type is
// defined for symmetry but only constructed, never parsed; receive-side
// reassembly is out of scope.
package isotp

import "fmt"

// PCI type nibbles.
const (
	pciSingle      = 0x00
	pciFirst       = 0x10
	pciConsecutive = 0x20
	pciFlow        = 0x30
)

// MaxPayload is the largest payload expressible in a First segment's 12-bit
// length field.
const MaxPayload = 4095

// LengthError reports a payload too large to segment.
type LengthError struct {
	Size int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("payload size %d exceeds %d bytes", e.Size, MaxPayload)
}

// Segment is one ISO-TP protocol data unit in the transmit direction.
type Segment interface {
	// Bytes renders the segment as CAN frame data, PCI first.
	Bytes() []byte
	// Check reports every invariant the segment violates. Construction
	// never validates; diagnostic tooling calls Check instead.
	Check() []string
}

// Single carries a whole payload of at most 7 bytes.
type Single struct {
	Length int // payload length 0-7, must equal len(Data)
	Data   []byte
}

func (s Single) Bytes() []byte {
	out := make([]byte, 0, 1+len(s.Data))
	out = append(out, pciSingle|byte(s.Length&0x0F))
	return append(out, s.Data...)
}

func (s Single) Check() []string {
	var v []string
	if s.Length < 0 || s.Length > 7 {
		v = append(v, fmt.Sprintf("dlength %d out of range 0-7", s.Length))
	}
	if len(s.Data) > 7 {
		v = append(v, fmt.Sprintf("data size %d exceeds 7 bytes", len(s.Data)))
	}
	if s.Length != len(s.Data) {
		v = append(v, fmt.Sprintf("dlength %d does not match data size %d", s.Length, len(s.Data)))
	}
	return v
}

// First opens a segmented transfer. Size is the total payload length, not
// the length of this segment's chunk.
type First struct {
	Size int    // total payload length 8-4095
	Data []byte // first chunk, at most 6 bytes
}

func (f First) Bytes() []byte {
	out := make([]byte, 0, 2+len(f.Data))
	out = append(out, pciFirst|byte(f.Size>>8)&0x0F, byte(f.Size))
	return append(out, f.Data...)
}

func (f First) Check() []string {
	var v []string
	if f.Size < 8 || f.Size > MaxPayload {
		v = append(v, fmt.Sprintf("dlength %d out of range 8-%d", f.Size, MaxPayload))
	}
	if len(f.Data) > 6 {
		v = append(v, fmt.Sprintf("data size %d exceeds 6 bytes", len(f.Data)))
	}
	return v
}

// Consecutive continues a segmented transfer. Index runs from 1 for the
// segment after First and wraps to 0 after 15.
type Consecutive struct {
	Index int // sequence number 0-15
	Data  []byte
}

func (c Consecutive) Bytes() []byte {
	out := make([]byte, 0, 1+len(c.Data))
	out = append(out, pciConsecutive|byte(c.Index&0x0F))
	return append(out, c.Data...)
}

func (c Consecutive) Check() []string {
	var v []string
	if c.Index < 0 || c.Index > 15 {
		v = append(v, fmt.Sprintf("dindex %d out of range 0-15", c.Index))
	}
	if len(c.Data) > 7 {
		v = append(v, fmt.Sprintf("data size %d exceeds 7 bytes", len(c.Data)))
	}
	return v
}

// Flow status values.
const (
	FlowContinue = 0
	FlowWait     = 1
	FlowOverflow = 2
)

// Flow is the receiver's flow-control segment. Defined here so both
// directions share one vocabulary; this package only constructs it and has
// no decode path for inbound flow control.
type Flow struct {
	Status         int // 0 continue, 1 wait, 2 overflow
	BlockSize      byte
	SeparationTime byte
}

func (f Flow) Bytes() []byte {
	return []byte{pciFlow | byte(f.Status&0x0F), f.BlockSize, f.SeparationTime}
}

func (f Flow) Check() []string {
	var v []string
	if f.Status < FlowContinue || f.Status > FlowOverflow {
		v = append(v, fmt.Sprintf("fc %d out of range 0-2", f.Status))
	}
	return v
}

// Split segments a payload for transmission: one Single for up to 7 bytes,
// otherwise a First holding the total length and the leading 6 bytes
// followed by Consecutive segments of up to 7 bytes each, sequence numbers
// starting at 1 and wrapping modulo 16. Payloads above MaxPayload fail with
// *LengthError. Chunks are copied; the result does not alias payload.
func Split(payload []byte) ([]Segment, error) {
	switch {
	case len(payload) <= 7:
		return []Segment{Single{Length: len(payload), Data: clone(payload)}}, nil
	case len(payload) <= MaxPayload:
		segs := make([]Segment, 0, 1+(len(payload)-6+6)/7)
		segs = append(segs, First{Size: len(payload), Data: clone(payload[:6])})
		i := 0
		for off := 6; off < len(payload); off += 7 {
			end := off + 7
			if end > len(payload) {
				end = len(payload)
			}
			i++
			segs = append(segs, Consecutive{Index: i % 16, Data: clone(payload[off:end])})
		}
		return segs, nil
	default:
		return nil, &LengthError{Size: len(payload)}
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

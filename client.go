package canusb

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Client drives the LAWICEL ASCII protocol over a byte transport, usually a
// serial port. Exactly one exchange is in flight at a time; the protocol has
// nothing that correlates requests to responses, so pipelining is unsafe.
// The caller must also keep command exchanges and the receive loop mutually
// exclusive in time, since both consume the same byte stream.
type Client struct {
	port      io.ReadWriter
	debug     bool
	onMessage func(string)
}

// Option configures a Client.
type Option func(*Client)

// WithDebug enables wire taps on every exchange.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithOnMessage sets the sink for debug wire taps. Defaults to a no-op.
func WithOnMessage(fn func(string)) Option {
	return func(c *Client) { c.onMessage = fn }
}

// New wraps a transport in a Client. The Client never closes the transport;
// its lifecycle belongs to the caller.
func New(port io.ReadWriter, opts ...Option) *Client {
	c := &Client{
		port:      port,
		onMessage: func(string) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue runs one request/response exchange for cmd with the given field
// values in declaration order. Omitted values take the field defaults. The
// raw fixed-width reply is returned undecoded; the typed per-command methods
// are usually more convenient.
func (c *Client) Issue(cmd Command, values ...uint64) ([]byte, error) {
	if cmd < 0 || cmd >= numCommands {
		return nil, &UnknownCommandError{Cmd: cmd}
	}
	d := catalog[cmd]
	return c.exchange(d, appendRequest(make([]byte, 0, 16), d, values))
}

// exchange writes req plus the terminator and block-reads the exact reply
// width for d. One write, one read, no retries; transport errors propagate
// to the caller.
func (c *Client) exchange(d descriptor, req []byte) ([]byte, error) {
	req = append(req, CR)
	if c.debug {
		c.onMessage(">> " + strconv.Quote(string(req)))
	}
	if _, err := c.port.Write(req); err != nil {
		return nil, fmt.Errorf("write %s: %w", d.name, err)
	}

	resp := make([]byte, d.respLen)
	n, err := io.ReadFull(c.port, resp)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, &DecodeError{Cmd: d.name, Want: d.respLen, Got: n}
		}
		return nil, fmt.Errorf("read %s reply: %w", d.name, err)
	}
	if c.debug {
		c.onMessage("<< " + strconv.Quote(string(resp)))
	}
	if d.echoesTag && resp[0] != d.tag {
		return nil, &DecodeError{Cmd: d.name, Want: d.respLen, Got: n,
			cause: fmt.Errorf("reply tag %q, want %q", resp[0], d.tag)}
	}
	return resp, nil
}

// statusCommand issues cmd and classifies its single status byte.
func (c *Client) statusCommand(cmd Command, values ...uint64) (Status, error) {
	resp, err := c.Issue(cmd, values...)
	if err != nil {
		return StatusUnknown, err
	}
	return ClassifyStatus(resp[0]), nil
}

// OpenChannel opens the CAN channel.
func (c *Client) OpenChannel() (Status, error) {
	return c.statusCommand(OpenChannel)
}

// CloseChannel closes the CAN channel.
func (c *Client) CloseChannel() (Status, error) {
	return c.statusCommand(CloseChannel)
}

// Serial returns the adapter serial number, e.g. "NA123" without the tag.
func (c *Client) Serial() (string, error) {
	resp, err := c.Issue(GetSerial)
	if err != nil {
		return "", err
	}
	return string(resp[1:]), nil
}

// Version is the adapter hardware and software revision pair.
type Version struct {
	Hardware uint8
	Software uint8
}

func (v Version) String() string {
	return fmt.Sprintf("hw %02X sw %02X", v.Hardware, v.Software)
}

// Version queries the adapter revision numbers.
func (c *Client) Version() (Version, error) {
	resp, err := c.Issue(GetVersion)
	if err != nil {
		return Version{}, err
	}
	hw, err := parseHexField("get_version", resp[1:3], 8)
	if err != nil {
		return Version{}, err
	}
	sw, err := parseHexField("get_version", resp[3:5], 8)
	if err != nil {
		return Version{}, err
	}
	return Version{Hardware: uint8(hw), Software: uint8(sw)}, nil
}

// StatusFlags polls the adapter's SJA1000 condition bitmap. Reading the
// flags also clears them in the adapter.
func (c *Client) StatusFlags() (StatusFlags, error) {
	resp, err := c.Issue(GetStatusFlags)
	if err != nil {
		return 0, err
	}
	flags, err := parseHexField("status_flag", resp[1:], 8)
	if err != nil {
		return 0, err
	}
	return StatusFlags(flags), nil
}

// SetBitrate selects one of the predefined bitrates via the S command.
// Unsupported rates fail before any I/O.
func (c *Client) SetBitrate(bitrate int) (Status, error) {
	code, ok := BitrateCode(bitrate)
	if !ok {
		return StatusUnknown, fmt.Errorf("unsupported bitrate %d", bitrate)
	}
	return c.statusCommand(SetBitrate, code)
}

// SetBTR programs a raw BTR0/BTR1 pair via the s command, for rates outside
// the predefined table.
func (c *Client) SetBTR(btr uint16) (Status, error) {
	return c.statusCommand(SetBTR, uint64(btr))
}

// SetAcceptanceMask programs the acceptance mask register pair.
func (c *Client) SetAcceptanceMask(mask uint32) (Status, error) {
	return c.statusCommand(SetAcceptanceMask, uint64(mask))
}

// SetAcceptanceCode programs the acceptance code register pair.
func (c *Client) SetAcceptanceCode(code uint32) (Status, error) {
	return c.statusCommand(SetAcceptanceCode, uint64(code))
}

// Transmit sends a single CAN frame and reports the adapter's verdict. On an
// Ok verdict the adapter emits one extra acknowledgement byte, which is
// drained here to keep the stream aligned for the next exchange. A frame
// longer than 8 bytes fails with *LengthError before any I/O.
func (c *Client) Transmit(f *Frame) (Status, error) {
	wire, err := f.MarshalWire()
	if err != nil {
		return StatusUnknown, err
	}
	d := catalog[TransmitStandard]
	if f.Extended {
		d = catalog[TransmitExtended]
	}
	resp, err := c.exchange(d, wire)
	if err != nil {
		return StatusUnknown, err
	}
	status := ClassifyStatus(resp[0])
	if status == StatusOk {
		var ack [1]byte
		if _, err := io.ReadFull(c.port, ack[:]); err != nil {
			return status, fmt.Errorf("read transmit ack: %w", err)
		}
	}
	return status, nil
}

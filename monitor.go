package canusb

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// ReadFrame blocks until one complete inbound frame has been read from the
// transport. Stray terminator bytes between frames are skipped; adapters
// emit them after some replies. Any other unexpected byte is a fatal
// *ProtocolError: once the stream position is off there is no way back to a
// frame boundary.
func (c *Client) ReadFrame() (*Frame, error) {
	var tag [1]byte
	for {
		if _, err := io.ReadFull(c.port, tag[:]); err != nil {
			return nil, fmt.Errorf("read tag: %w", err)
		}
		switch tag[0] {
		case CR:
			continue
		case 't':
			return c.readFrameBody(3, false)
		case 'T':
			return c.readFrameBody(8, true)
		default:
			return nil, &ProtocolError{Byte: tag[0], Reason: "unexpected tag byte"}
		}
	}
}

// readFrameBody reads identifier, DLC digit, data and the mandatory
// terminator after a t or T tag has been consumed.
func (c *Client) readFrameBody(idWidth int, extended bool) (*Frame, error) {
	head := make([]byte, idWidth+1)
	if _, err := io.ReadFull(c.port, head); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	id, err := strconv.ParseUint(string(head[:idWidth]), 16, 32)
	if err != nil {
		return nil, &ProtocolError{Byte: head[0], Reason: "malformed identifier"}
	}

	dlc := head[idWidth]
	if dlc < '0' || dlc > '8' {
		return nil, &ProtocolError{Byte: dlc, Reason: "DLC out of range 0-8"}
	}
	n := int(dlc - '0')

	body := make([]byte, 2*n+1)
	if _, err := io.ReadFull(c.port, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	if body[2*n] != CR {
		return nil, &ProtocolError{Byte: body[2*n], Reason: "expected terminator"}
	}

	data, err := hex.DecodeString(string(body[:2*n]))
	if err != nil {
		return nil, &ProtocolError{Byte: body[0], Reason: "malformed data"}
	}

	f := &Frame{Identifier: uint32(id), Extended: extended, Data: data}
	return f, nil
}

// Monitor pulls inbound frames and hands each to fn. A positive count stops
// the loop after that many frames; zero or negative runs until a fatal
// stream error or until ctx is cancelled. Cancellation is observed between
// frames only — a blocked read returns when the caller closes the port,
// which Monitor itself never does.
func (c *Client) Monitor(ctx context.Context, count int, fn func(*Frame)) error {
	for n := 0; count <= 0 || n < count; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := c.ReadFrame()
		if err != nil {
			return err
		}
		fn(f)
	}
	return nil
}

package canusb

import (
	"strconv"
)

// Command identifies one entry in the LAWICEL command catalog.
type Command int

const (
	OpenChannel Command = iota
	CloseChannel
	GetSerial
	GetVersion
	GetStatusFlags
	SetBitrate
	SetBTR
	SetAcceptanceMask
	SetAcceptanceCode
	TransmitStandard
	TransmitExtended

	numCommands
)

func (c Command) String() string {
	if c < 0 || c >= numCommands {
		return "Command(" + strconv.Itoa(int(c)) + ")"
	}
	return catalog[c].name
}

// field is one fixed-width request field, encoded as width hex characters,
// zero-padded on the left.
type field struct {
	name  string
	width int
	def   uint64
}

// descriptor is the wire shape of one command and its fixed-width reply.
type descriptor struct {
	name      string
	tag       byte
	fields    []field
	respLen   int  // reply width in bytes, excluding any success ack byte
	echoesTag bool // reply starts with the command tag
}

// catalog is the closed command set. The transmit entries only describe the
// fixed head of the request; the variable data part is produced by the frame
// codec.
var catalog = [numCommands]descriptor{
	OpenChannel:       {name: "open_channel", tag: 'O', respLen: 1},
	CloseChannel:      {name: "close_channel", tag: 'C', respLen: 1},
	GetSerial:         {name: "get_serial", tag: 'N', respLen: 5, echoesTag: true},
	GetVersion:        {name: "get_version", tag: 'V', respLen: 5, echoesTag: true},
	GetStatusFlags:    {name: "status_flag", tag: 'F', respLen: 3, echoesTag: true},
	SetBitrate:        {name: "standard_setup", tag: 'S', fields: []field{{"code", 1, 0}}, respLen: 1},
	SetBTR:            {name: "btr_setup", tag: 's', fields: []field{{"btr", 4, 0}}, respLen: 1},
	SetAcceptanceMask: {name: "acceptance_mask", tag: 'm', fields: []field{{"mask", 8, 0xFFFFFFFF}}, respLen: 1},
	SetAcceptanceCode: {name: "acceptance_code", tag: 'M', fields: []field{{"code", 8, 0}}, respLen: 1},
	TransmitStandard:  {name: "transmit", tag: 't', fields: []field{{"id", 3, 0}, {"dlc", 1, 0}}, respLen: 1},
	TransmitExtended:  {name: "transmit_ext", tag: 'T', fields: []field{{"id", 8, 0}, {"dlc", 1, 0}}, respLen: 1},
}

const upperhex = "0123456789ABCDEF"

// appendHex writes v as width uppercase hex characters, high nibble first.
// Values wider than the field are truncated to the low width*4 bits.
func appendHex(dst []byte, v uint64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		dst = append(dst, upperhex[(v>>(4*uint(i)))&0xF])
	}
	return dst
}

// appendRequest encodes the request for d with the given field values in
// declaration order. Missing values fall back to the field defaults. The
// terminator is not appended here.
func appendRequest(dst []byte, d descriptor, values []uint64) []byte {
	dst = append(dst, d.tag)
	for i, f := range d.fields {
		v := f.def
		if i < len(values) {
			v = values[i]
		}
		dst = appendHex(dst, v, f.width)
	}
	return dst
}

// parseHexField decodes a fixed-width hex field from a reply.
func parseHexField(cmd string, b []byte, bits int) (uint64, error) {
	v, err := strconv.ParseUint(string(b), 16, bits)
	if err != nil {
		return 0, &DecodeError{Cmd: cmd, Want: len(b), Got: len(b), cause: err}
	}
	return v, nil
}

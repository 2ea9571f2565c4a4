package canusb

import (
	"bytes"
	"errors"
	"testing"
)

// scriptPort is a transport with a canned reply stream.
type scriptPort struct {
	in  bytes.Buffer // replies the adapter would send
	out bytes.Buffer // bytes written by the client
}

func newScriptPort(replies string) *scriptPort {
	p := &scriptPort{}
	p.in.WriteString(replies)
	return p
}

func (p *scriptPort) Read(b []byte) (int, error)  { return p.in.Read(b) }
func (p *scriptPort) Write(b []byte) (int, error) { return p.out.Write(b) }

func TestIssueWire(t *testing.T) {
	tests := []struct {
		name  string
		cmd   Command
		args  []uint64
		reply string
		want  string
	}{
		{"open channel", OpenChannel, nil, "\r", "O\r"},
		{"close channel", CloseChannel, nil, "\r", "C\r"},
		{"bitrate code", SetBitrate, []uint64{4}, "\r", "S4\r"},
		{"btr pair", SetBTR, []uint64{0x431C}, "\r", "s431C\r"},
		{"mask default", SetAcceptanceMask, nil, "\r", "mFFFFFFFF\r"},
		{"mask explicit", SetAcceptanceMask, []uint64{0x000005E0}, "\r", "m000005E0\r"},
		{"code default", SetAcceptanceCode, nil, "\r", "M00000000\r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := newScriptPort(tt.reply)
			c := New(port)
			if _, err := c.Issue(tt.cmd, tt.args...); err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			if got := port.out.String(); got != tt.want {
				t.Errorf("wire = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIssueUnknownCommand(t *testing.T) {
	c := New(newScriptPort(""))
	_, err := c.Issue(Command(99))
	var ue *UnknownCommandError
	if !errors.As(err, &ue) {
		t.Fatalf("Issue() error = %v, want *UnknownCommandError", err)
	}
	if ue.Cmd != Command(99) {
		t.Errorf("Cmd = %d, want 99", int(ue.Cmd))
	}
}

func TestIssueShortReply(t *testing.T) {
	port := newScriptPort("V10") // reply truncated mid-stream
	c := New(port)
	_, err := c.Issue(GetVersion)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Issue() error = %v, want *DecodeError", err)
	}
	if de.Want != 5 || de.Got != 3 {
		t.Errorf("DecodeError = want %d got %d, expected want 5 got 3", de.Want, de.Got)
	}
}

func TestIssueReplyTagMismatch(t *testing.T) {
	c := New(newScriptPort("X1011"))
	_, err := c.Issue(GetVersion)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Issue() error = %v, want *DecodeError", err)
	}
}

func TestTransmitWire(t *testing.T) {
	port := newScriptPort("z\r") // ack verdict plus the extra success byte
	c := New(port)
	status, err := c.Transmit(NewFrame(0x7ff, []byte{0xbe, 0xef}))
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if status != StatusOk {
		t.Errorf("status = %v, want ok", status)
	}
	if got := port.out.String(); got != "t7ff2beef\r" {
		t.Errorf("wire = %q, want %q", got, "t7ff2beef\r")
	}
	if port.in.Len() != 0 {
		t.Errorf("success ack byte not drained, %d bytes left", port.in.Len())
	}
}

func TestTransmitExtendedWire(t *testing.T) {
	port := newScriptPort("Z\r")
	c := New(port)
	status, err := c.Transmit(NewExtendedFrame(0x180, []byte{0x01}))
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if status != StatusOk {
		t.Errorf("status = %v, want ok", status)
	}
	if got := port.out.String(); got != "T00000180101\r" {
		t.Errorf("wire = %q, want %q", got, "T00000180101\r")
	}
}

func TestTransmitRejected(t *testing.T) {
	port := newScriptPort("\x07")
	c := New(port)
	status, err := c.Transmit(NewFrame(0x123, nil))
	if err != nil {
		t.Fatalf("Transmit() error = %v", err)
	}
	if status != StatusError {
		t.Errorf("status = %v, want error", status)
	}
	// No ack byte is consumed on a rejected transmit.
	if port.in.Len() != 0 {
		t.Errorf("unexpected bytes left: %d", port.in.Len())
	}
}

func TestTransmitLengthError(t *testing.T) {
	port := newScriptPort("")
	c := New(port)
	_, err := c.Transmit(NewFrame(0x123, make([]byte, 9)))
	var le *LengthError
	if !errors.As(err, &le) {
		t.Fatalf("Transmit() error = %v, want *LengthError", err)
	}
	if port.out.Len() != 0 {
		t.Errorf("bytes written before validation: %q", port.out.String())
	}
}

func TestVersion(t *testing.T) {
	c := New(newScriptPort("V1011"))
	v, err := c.Version()
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v.Hardware != 0x10 || v.Software != 0x11 {
		t.Errorf("Version() = %+v, want hw 10 sw 11", v)
	}
}

func TestSerial(t *testing.T) {
	c := New(newScriptPort("NA123"))
	serial, err := c.Serial()
	if err != nil {
		t.Fatalf("Serial() error = %v", err)
	}
	if serial != "A123" {
		t.Errorf("Serial() = %q, want %q", serial, "A123")
	}
}

func TestStatusFlags(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  StatusFlags
		err   error
	}{
		{"clear", "F00", 0, nil},
		{"error warning", "F04", FlagErrorWarning, ErrErrorWarning},
		{"bus error wins", "F84", FlagBusError | FlagErrorWarning, ErrBusError},
		{"rx fifo full", "F01", FlagRxFifoFull, ErrRxFifoFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(newScriptPort(tt.reply))
			flags, err := c.StatusFlags()
			if err != nil {
				t.Fatalf("StatusFlags() error = %v", err)
			}
			if flags != tt.want {
				t.Errorf("flags = %08b, want %08b", flags, tt.want)
			}
			if !errors.Is(flags.Err(), tt.err) {
				t.Errorf("Err() = %v, want %v", flags.Err(), tt.err)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		b    byte
		want Status
	}{
		{0x07, StatusError},
		{'Z', StatusOk},
		{'z', StatusOk},
		{CR, StatusUnknown},
		{'x', StatusUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyStatus(tt.b); got != tt.want {
			t.Errorf("ClassifyStatus(0x%02X) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestInitSequence(t *testing.T) {
	port := newScriptPort("\r\r\r\r\r")
	c := New(port)
	if err := c.Init(DefaultInit(500000)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	want := "C\rS6\rmFFFFFFFF\rM00000000\rO\r"
	if got := port.out.String(); got != want {
		t.Errorf("wire = %q, want %q", got, want)
	}
}

func TestInitBTRSequence(t *testing.T) {
	port := newScriptPort("\r\r\r\r\r")
	c := New(port)
	cfg := InitConfig{BTR: 0x431C, AcceptanceMask: DefaultAcceptanceMask}
	if err := c.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	want := "C\rs431C\rmFFFFFFFF\rM00000000\rO\r"
	if got := port.out.String(); got != want {
		t.Errorf("wire = %q, want %q", got, want)
	}
}

func TestInitAbortsOnBadStep(t *testing.T) {
	// Steps 0-2 succeed, acceptance_code is rejected with BELL.
	port := newScriptPort("\r\r\r\x07")
	c := New(port)
	err := c.Init(DefaultInit(250000))
	var ie *InitError
	if !errors.As(err, &ie) {
		t.Fatalf("Init() error = %v, want *InitError", err)
	}
	if ie.Step != 3 || ie.Name != "acceptance_code" {
		t.Errorf("failed step = %d (%s), want 3 (acceptance_code)", ie.Step, ie.Name)
	}
	if ie.Got != 0x07 {
		t.Errorf("Got = 0x%02X, want 0x07", ie.Got)
	}
	if bytes.ContainsRune(port.out.Bytes(), 'O') {
		t.Errorf("open_channel sent after failed step: %q", port.out.String())
	}
}

func TestInitUnsupportedBitrate(t *testing.T) {
	port := newScriptPort("\r")
	c := New(port)
	err := c.Init(DefaultInit(300000))
	if err == nil {
		t.Fatal("Init() expected error for unsupported bitrate")
	}
	// close_channel went out, the bitrate step must not have.
	if got := port.out.String(); got != "C\r" {
		t.Errorf("wire = %q, want %q", got, "C\r")
	}
}

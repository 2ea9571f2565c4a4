package canusb

import (
	"errors"
	"fmt"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// OpenPort opens the serial device 8N1 at the given baud rate. The returned
// port satisfies the Client transport contract; closing it is the caller's
// job and is also the only way to interrupt a blocked read.
func OpenPort(name string, baudrate int) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open com port %q: %w", name, err)
	}
	return p, nil
}

// PortDetails lists the attached serial ports with USB descriptors where the
// platform provides them.
func PortDetails() ([]*enumerator.PortDetails, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	if len(ports) == 0 {
		return nil, errors.New("no serial ports found")
	}
	return ports, nil
}

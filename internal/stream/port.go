package stream

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Port is the minimal serial port surface the device stream needs. The
// abstraction lets tests run against an in-memory port instead of real
// hardware; go.bug.st/serial ports satisfy it directly.
type Port interface {
	io.Reader
	io.Closer
	SetReadTimeout(timeout time.Duration) error
	ResetInputBuffer() error
	ResetOutputBuffer() error
}

// PortOpener opens a serial port by name. Injectable for testing.
type PortOpener func(name string) (Port, error)

// Baud rate of the acquisition device's serial link.
const deviceBaudRate = 230400

// OpenSerialPort opens a real serial port configured for the acquisition
// device (230400 baud, 8 data bits, no parity, one stop bit).
func OpenSerialPort(name string) (Port, error) {
	mode := &serial.Mode{
		BaudRate: deviceBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}

// listPorts enumerates the serial ports currently visible on the host.
// Replaced in tests.
var listPorts = func() []string {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil
	}
	return ports
}

// PortUnavailableError reports that the acquisition device could not be
// opened. Available carries the serial ports visible at the time of the
// failure, for operator display only.
type PortUnavailableError struct {
	Port      string
	Available []string
	Err       error
}

func (e *PortUnavailableError) Error() string {
	return fmt.Sprintf("cannot open serial port %q (available: %v): %v", e.Port, e.Available, e.Err)
}

func (e *PortUnavailableError) Unwrap() error { return e.Err }

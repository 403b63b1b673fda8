package stream

import (
	"log"
	"time"

	"github.com/neuroarcade/spikestream/internal/frame"
)

// defaultDeviceChunk is the raw read size in protocol units: 10000 bytes,
// half a second of signal.
const defaultDeviceChunk = 10000

// DeviceStream reads raw bytes from the acquisition device's serial port
// and decodes them into samples.
type DeviceStream struct {
	port       Port
	chunk      int
	bufferTime float64
	timeout    time.Duration
}

// NewDeviceStream opens the serial device at name and configures its read
// timeout to the wall-clock coverage of one chunk. On failure the returned
// error is a *PortUnavailableError listing the ports currently visible.
func NewDeviceStream(name string, chunk int) (*DeviceStream, error) {
	return newDeviceStream(name, chunk, OpenSerialPort)
}

func newDeviceStream(name string, chunk int, open PortOpener) (*DeviceStream, error) {
	log.Printf("opening serial port %s", name)
	port, err := open(name)
	if err != nil {
		return nil, &PortUnavailableError{Port: name, Available: listPorts(), Err: err}
	}

	bufferTime := float64(chunk) / ChunkUnitTime
	timeout := time.Duration(bufferTime * float64(time.Second))
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, &PortUnavailableError{Port: name, Available: listPorts(), Err: err}
	}

	return &DeviceStream{
		port:       port,
		chunk:      chunk,
		bufferTime: bufferTime,
		timeout:    timeout,
	}, nil
}

// Update reads up to one chunk of raw bytes and decodes the frames found in
// it. The read loop stops at a full chunk, a zero-byte timeout, or one chunk's
// worth of wall-clock time, so a device trickling single bytes cannot stall a
// poll past its timeout. A short (possibly empty) chunk is not an error: the
// window-readiness check downstream absorbs the shortfall.
func (s *DeviceStream) Update() []float64 {
	buf := make([]byte, s.chunk)
	deadline := time.Now().Add(s.timeout)
	n := 0
	for n < len(buf) && time.Now().Before(deadline) {
		m, err := s.port.Read(buf[n:])
		if err != nil {
			log.Printf("serial read error after %d bytes: %v", n, err)
			break
		}
		if m == 0 {
			// Read timeout.
			break
		}
		n += m
	}
	return frame.Decode(buf[:n])
}

// BufferTime returns the wall-clock coverage of one chunk in seconds.
func (s *DeviceStream) BufferTime() float64 { return s.bufferTime }

// Close flushes the device buffers and releases the port.
func (s *DeviceStream) Close() error {
	if err := s.port.ResetInputBuffer(); err != nil {
		log.Printf("failed to reset input buffer: %v", err)
	}
	if err := s.port.ResetOutputBuffer(); err != nil {
		log.Printf("failed to reset output buffer: %v", err)
	}
	return s.port.Close()
}

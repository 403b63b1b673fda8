package stream

import (
	"math"
	"time"
)

// mockPort implements Port, synthesizing an endless framed waveform so the
// full decode path can run without acquisition hardware.
type mockPort struct {
	phase int
}

// mockPeriod is the synthetic waveform period in samples.
const mockPeriod = 200

// Read fills p with two-byte frames encoding a slow sine centred in the
// 14-bit amplitude range. The buffer is always filled completely, so a
// device read over this port never times out.
func (m *mockPort) Read(p []byte) (int, error) {
	i := 0
	for ; i+1 < len(p); i += 2 {
		v := 8192 + int(6000*math.Sin(2*math.Pi*float64(m.phase)/mockPeriod))
		m.phase++
		p[i] = 0x80 | byte(v>>7)
		p[i+1] = byte(v & 0x7F)
	}
	if i < len(p) {
		p[i] = 0
		i++
	}
	return i, nil
}

func (m *mockPort) Close() error { return nil }

func (m *mockPort) SetReadTimeout(timeout time.Duration) error { return nil }

func (m *mockPort) ResetInputBuffer() error { return nil }

func (m *mockPort) ResetOutputBuffer() error { return nil }

// NewMockDeviceStream returns a device stream backed by a synthetic port,
// for development without hardware attached.
func NewMockDeviceStream() *DeviceStream {
	// The mock opener cannot fail.
	s, _ := newDeviceStream("mock", defaultDeviceChunk, func(string) (Port, error) {
		return &mockPort{}, nil
	})
	return s
}

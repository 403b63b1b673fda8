// Package stream provides the input sources feeding the classification
// pipeline: a live serial acquisition device and two cyclic replay sources
// (raw sample arrays and PCM WAV recordings). All sources expose the same
// two-operation capability so the pipeline never knows which one is active.
package stream

import (
	"errors"
	"fmt"
)

// Stream type identifiers recognized in configuration.
const (
	TypeDevice = "SpikerStream"
	TypeArray  = "ArrayStream"
	TypeWAV    = "WAVStream"
	TypeNone   = "None"
)

// ChunkUnitTime is the protocol's time base: 20000 raw units cover one
// second of wall-clock signal.
const ChunkUnitTime = 20000

// ArrayUnitSize is the number of decoded samples covering one second of
// signal. Two raw bytes make one sample and one marker byte per read is
// unusable at the buffer edge.
const ArrayUnitSize = ChunkUnitTime/2 - 1

// ErrInvalidStreamType reports an unrecognized stream_type configuration
// value. No source is constructed.
var ErrInvalidStreamType = errors.New("invalid stream type")

// Source is the capability shared by all input stream variants.
type Source interface {
	// Update pulls the next chunk of samples from the stream. A short or
	// empty chunk is not an error: a device read can time out and a replay
	// slice can hit the end of its backing data before wrapping.
	Update() []float64
	// BufferTime is the wall-clock coverage of one chunk in seconds. The
	// pipeline gates reads on this interval so consecutive chunks never
	// overlap.
	BufferTime() float64
	// Close releases the underlying resource. Replay sources hold no
	// external resource and always return nil.
	Close() error
}

// Config selects and parameterizes a stream variant.
type Config struct {
	Type string // one of TypeDevice, TypeArray, TypeWAV
	File string // backing file path for replay variants
	Port string // serial device identifier for TypeDevice
}

// New builds the source named by cfg.Type. Construction failures are fatal
// to the caller: no partial source is returned.
func New(cfg Config) (Source, error) {
	switch cfg.Type {
	case TypeDevice:
		return NewDeviceStream(cfg.Port, defaultDeviceChunk)
	case TypeArray:
		return NewArrayStream(cfg.File, defaultDeviceChunk)
	case TypeWAV:
		return NewWAVStream(cfg.File, defaultWAVBufferTime)
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidStreamType, cfg.Type)
	}
}

// Smoothed reports whether windows built from this stream type get boxcar
// smoothing before normalization. Live and array-backed signals carry
// acquisition noise; WAV recordings were smoothed when captured.
func Smoothed(streamType string) bool {
	return streamType == TypeDevice || streamType == TypeArray
}

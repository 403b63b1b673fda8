package stream

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
)

// replay implements cyclic read-pointer semantics over an in-memory sample
// array. Reaching the end is never an error: the pointer wraps to the start
// and a restart notice is logged.
type replay struct {
	samples    []float64
	chunk      int
	pointer    int
	bufferTime float64
	restarts   int
}

// Update returns the next chunk-length slice of samples. The slice is
// truncated at the end of the backing array; once the pointer passes the
// end it wraps to zero.
func (r *replay) Update() []float64 {
	end := r.pointer + r.chunk
	if end > len(r.samples) {
		end = len(r.samples)
	}
	out := make([]float64, end-r.pointer)
	copy(out, r.samples[r.pointer:end])

	r.pointer += r.chunk
	if r.pointer > len(r.samples) {
		r.pointer = 0
		r.restarts++
		log.Printf("restarting stream")
	}
	return out
}

// BufferTime returns the wall-clock coverage of one chunk in seconds.
func (r *replay) BufferTime() float64 { return r.bufferTime }

// Close is a no-op: replay sources hold no external resource.
func (r *replay) Close() error { return nil }

// Restarts reports how many times the read pointer has wrapped.
func (r *replay) Restarts() int { return r.restarts }

// ArrayStream replays samples recorded from a live session and persisted as
// a flat little-endian float64 array file.
type ArrayStream struct {
	replay
}

// NewArrayStream loads the sample array at path. The raw chunk size is in
// protocol units (bytes of serial traffic); the replayed sample chunk is the
// decoded equivalent, rawChunk/2 - 1 samples.
func NewArrayStream(path string, rawChunk int) (*ArrayStream, error) {
	samples, err := loadArray(path)
	if err != nil {
		return nil, fmt.Errorf("loading replay array %s: %w", path, err)
	}
	return &ArrayStream{replay{
		samples:    samples,
		chunk:      rawChunk/2 - 1,
		bufferTime: float64(rawChunk) / ChunkUnitTime,
	}}, nil
}

// loadArray reads a flat array of little-endian float64 values.
func loadArray(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("array file length %d is not a multiple of 8", len(raw))
	}
	samples := make([]float64, len(raw)/8)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return samples, nil
}

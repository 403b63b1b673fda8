package pipeline

import "github.com/neuroarcade/spikestream/internal/stream"

// SlidingBuffer accumulates source chunks into a bounded analysis window.
// Reads are gated on the source's buffer time so that consecutive chunks
// never overlap in wall-clock coverage.
type SlidingBuffer struct {
	window     []float64
	bufferSize int
	timer      float64 // milliseconds since the last pull
}

// NewSlidingBuffer returns an empty buffer that reports a window ready once
// it holds more than bufferSize samples.
func NewSlidingBuffer(bufferSize int) *SlidingBuffer {
	return &SlidingBuffer{bufferSize: bufferSize}
}

// Poll advances the gate timer by elapsedMs and, once a full buffer time
// has passed, pulls one chunk from src and folds it into the window. The
// returned window is non-nil only when it holds enough samples to classify;
// pulled reports whether a chunk was taken this call.
//
// When the window already exceeds its bound, len(chunk)+1 samples are
// dropped from the front before the new chunk is appended. The extra one
// predates this codebase; models were trained against windows trimmed this
// way, so it stays.
func (b *SlidingBuffer) Poll(elapsedMs float64, src stream.Source) (window []float64, pulled bool) {
	b.timer += elapsedMs
	if b.timer/1000.0 < src.BufferTime() {
		return nil, false
	}
	b.timer = 0

	chunk := src.Update()
	if b.window == nil {
		b.window = chunk
	} else {
		if len(b.window) > b.bufferSize {
			drop := len(chunk) + 1
			if drop > len(b.window) {
				drop = len(b.window)
			}
			b.window = b.window[drop:]
		}
		b.window = append(b.window, chunk...)
	}

	if len(b.window) > b.bufferSize {
		return b.window, true
	}
	return nil, true
}

// Fill reports the current window length and the readiness bound.
func (b *SlidingBuffer) Fill() (length, bufferSize int) {
	return len(b.window), b.bufferSize
}

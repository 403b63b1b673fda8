package stream

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// defaultWAVBufferTime is the chunk coverage used for WAV replay, in
// seconds. WAV recordings carry their own sample rate, so the chunk size is
// derived from it rather than from the serial protocol's time base.
const defaultWAVBufferTime = 1.5

// WAVStream replays a recorded signal from a PCM WAV file, decoded once at
// construction.
type WAVStream struct {
	replay
	sampleRate int
}

// NewWAVStream decodes the 16-bit PCM mono file at path and replays it in
// chunks covering bufferTime seconds each.
func NewWAVStream(path string, bufferTime float64) (*WAVStream, error) {
	samples, sampleRate, err := DecodeWAV(path)
	if err != nil {
		return nil, err
	}
	return &WAVStream{
		replay: replay{
			samples:    samples,
			chunk:      int(bufferTime * float64(sampleRate)),
			bufferTime: bufferTime,
		},
		sampleRate: sampleRate,
	}, nil
}

// DecodeWAV reads the whole PCM mono file at path and returns its samples
// as raw integer amplitudes alongside the sample rate. Normalization
// happens per analysis window, not at load time.
func DecodeWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening wav file %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s is not a valid wav file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding wav file %s: %w", path, err)
	}
	if buf.Format.NumChannels != 1 {
		return nil, 0, fmt.Errorf("wav file %s has %d channels, want mono", path, buf.Format.NumChannels)
	}

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v)
	}
	return samples, buf.Format.SampleRate, nil
}

// SampleRate returns the decoded file's sample rate in Hz.
func (s *WAVStream) SampleRate() int { return s.sampleRate }

package stream

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeArrayFile(t *testing.T, samples []float64) string {
	t.Helper()
	raw := make([]byte, 8*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}
	path := filepath.Join(t.TempDir(), "session.f64")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("writing array file: %v", err)
	}
	return path
}

func TestNewArrayStream(t *testing.T) {
	samples := []float64{10, 20, 30, 40, 50}
	path := writeArrayFile(t, samples)

	s, err := NewArrayStream(path, defaultDeviceChunk)
	if err != nil {
		t.Fatalf("NewArrayStream: %v", err)
	}
	defer s.Close()

	if s.chunk != defaultDeviceChunk/2-1 {
		t.Errorf("chunk = %d, want %d", s.chunk, defaultDeviceChunk/2-1)
	}
	if s.BufferTime() != 0.5 {
		t.Errorf("BufferTime() = %v, want 0.5", s.BufferTime())
	}

	got := s.Update()
	if len(got) != len(samples) {
		t.Fatalf("Update() returned %d samples, want %d", len(got), len(samples))
	}
	for i := range got {
		if got[i] != samples[i] {
			t.Errorf("Update()[%d] = %v, want %v", i, got[i], samples[i])
		}
	}
}

func TestNewArrayStreamRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.f64")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewArrayStream(path, defaultDeviceChunk); err == nil {
		t.Fatal("NewArrayStream accepted a truncated array file")
	}
}

func TestNewArrayStreamMissingFile(t *testing.T) {
	if _, err := NewArrayStream(filepath.Join(t.TempDir(), "nope.f64"), defaultDeviceChunk); err == nil {
		t.Fatal("NewArrayStream accepted a missing file")
	}
}

func writeWAVFile(t *testing.T, samples []int, sampleRate int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating wav file: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encoding wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing wav encoder: %v", err)
	}
	return path
}

func TestNewWAVStream(t *testing.T) {
	const sampleRate = 8
	samples := []int{100, -200, 300, -400, 500, -600, 700, -800, 900, -1000, 1100, -1200}
	path := writeWAVFile(t, samples, sampleRate)

	s, err := NewWAVStream(path, 1.0)
	if err != nil {
		t.Fatalf("NewWAVStream: %v", err)
	}
	defer s.Close()

	if s.SampleRate() != sampleRate {
		t.Errorf("SampleRate() = %d, want %d", s.SampleRate(), sampleRate)
	}
	// chunk = buffer_time * sample_rate, not the serial time base.
	if s.chunk != sampleRate {
		t.Errorf("chunk = %d, want %d", s.chunk, sampleRate)
	}
	if s.BufferTime() != 1.0 {
		t.Errorf("BufferTime() = %v, want 1.0", s.BufferTime())
	}

	got := s.Update()
	if len(got) != sampleRate {
		t.Fatalf("Update() returned %d samples, want %d", len(got), sampleRate)
	}
	for i := range got {
		if got[i] != float64(samples[i]) {
			t.Errorf("Update()[%d] = %v, want %v", i, got[i], float64(samples[i]))
		}
	}

	// Second pull truncates at end of data; the third wraps back to the head.
	second := s.Update()
	if len(second) != len(samples)-sampleRate {
		t.Fatalf("second Update() returned %d samples, want %d", len(second), len(samples)-sampleRate)
	}
	third := s.Update()
	if len(third) != sampleRate || third[0] != float64(samples[0]) {
		t.Fatalf("third Update() did not wrap to the start: %v", third)
	}
	if s.Restarts() != 1 {
		t.Errorf("Restarts() = %d, want 1", s.Restarts())
	}
}

func TestNewWAVStreamRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.wav")
	if err := os.WriteFile(path, []byte("not a riff container"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewWAVStream(path, 1.0); err == nil {
		t.Fatal("NewWAVStream accepted a non-wav file")
	}
}

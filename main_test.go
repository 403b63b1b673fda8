package main

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/neuroarcade/spikestream/internal/classify"
	"github.com/neuroarcade/spikestream/internal/config"
	"github.com/neuroarcade/spikestream/internal/stream"
)

func writeModelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	model := classify.KNN{
		K:        1,
		Labels:   []string{"left", "right"},
		Features: [][]float64{{1, 0, 0, 0, 0, 0, 0, 0}, {-1, 0, 0, 0, 0, 0, 0, 0}},
	}
	raw, err := json.Marshal(model)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"KNN.json", "RFC.json", "SVM.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func writeSampleArray(t *testing.T, n int) string {
	t.Helper()
	raw := make([]byte, 8*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(float64(i%100)))
	}
	path := filepath.Join(t.TempDir(), "recording.f64")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildPipelineNoneStreamIsDegraded(t *testing.T) {
	cfg := config.Default()
	p, err := buildPipeline(cfg, nil, false)
	if err != nil {
		t.Fatalf("buildPipeline: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil pipeline for stream type None")
	}
}

func TestBuildPipelineInvalidModelType(t *testing.T) {
	cfg := config.Default()
	cfg.StreamType = stream.TypeArray
	cfg.ModelType = "Phrenology"
	_, err := buildPipeline(cfg, nil, false)
	if !errors.Is(err, classify.ErrInvalidModelType) {
		t.Fatalf("err = %v, want ErrInvalidModelType", err)
	}
}

func TestBuildPipelineInvalidStreamType(t *testing.T) {
	cfg := config.Default()
	cfg.ModelDir = writeModelDir(t)
	cfg.StreamType = "MindReader"
	_, err := buildPipeline(cfg, nil, false)
	if !errors.Is(err, stream.ErrInvalidStreamType) {
		t.Fatalf("err = %v, want ErrInvalidStreamType", err)
	}
}

func TestBuildPipelineArrayStream(t *testing.T) {
	cfg := config.Default()
	cfg.ModelDir = writeModelDir(t)
	cfg.StreamType = stream.TypeArray
	cfg.StreamFile = writeSampleArray(t, 20000)

	p, err := buildPipeline(cfg, nil, false)
	if err != nil {
		t.Fatalf("buildPipeline: %v", err)
	}
	if p == nil {
		t.Fatal("expected a live pipeline")
	}
	defer p.Close()

	controls := p.Poll(1500)
	if _, ok := controls["LEFT"]; !ok {
		t.Errorf("Poll returned no LEFT flag: %v", controls)
	}
}

func TestBuildPipelineDevMode(t *testing.T) {
	cfg := config.Default()
	cfg.ModelDir = writeModelDir(t)
	cfg.StreamType = stream.TypeDevice
	cfg.DevicePort = "/dev/does-not-exist"

	p, err := buildPipeline(cfg, nil, true)
	if err != nil {
		t.Fatalf("buildPipeline: %v", err)
	}
	if p == nil {
		t.Fatal("expected a live pipeline on the synthetic port")
	}
	defer p.Close()

	// The synthetic port fills the window without hardware attached.
	p.Poll(1500)
	fill, _ := p.WindowFill()
	if fill == 0 {
		t.Error("window is empty after a dev-mode poll")
	}
}

func TestApplyFlags(t *testing.T) {
	*streamType = stream.TypeWAV
	*streamFile = "clip.wav"
	*listen = ":9090"
	defer func() {
		*streamType = ""
		*streamFile = ""
		*listen = ""
	}()

	cfg := applyFlags(config.Default())
	if cfg.StreamType != stream.TypeWAV || cfg.StreamFile != "clip.wav" || cfg.Listen != ":9090" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.ModelType != "RandomForestClassifier" {
		t.Errorf("unset flag overwrote ModelType: %q", cfg.ModelType)
	}
}

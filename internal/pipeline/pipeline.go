// Package pipeline orchestrates one classification cycle per poll: gate the
// source read, fold the chunk into the sliding window, condition the window,
// classify it, and fold the label into the control state. The caller drives
// progress by polling with its own elapsed frame time; there are no internal
// goroutines.
package pipeline

import (
	"log"
	"sync"

	"github.com/neuroarcade/spikestream/internal/classify"
	"github.com/neuroarcade/spikestream/internal/dsp"
	"github.com/neuroarcade/spikestream/internal/stream"
)

// smoothingDivisor sets the boxcar kernel width relative to the window
// length.
const smoothingDivisor = 50

// Recorder persists classification results. Optional; a nil recorder
// disables persistence.
type Recorder interface {
	RecordLabel(label string, windowLen int) error
}

// Pipeline owns the sliding window and control state for one session.
type Pipeline struct {
	mu         sync.Mutex
	source     stream.Source
	buffer     *SlidingBuffer
	controls   *ControlState
	classifier classify.Classifier
	features   classify.FeatureFunc
	smoothing  bool
	recorder   Recorder
}

// Options configures optional pipeline collaborators.
type Options struct {
	// Recorder receives every non-noise classification.
	Recorder Recorder
	// Features overrides the default feature extractor.
	Features classify.FeatureFunc
}

// New builds a pipeline over src. bufferTime (seconds) sets the analysis
// window bound in protocol units; smoothing selects boxcar conditioning for
// noisy (live or array-backed) signals.
func New(src stream.Source, classifier classify.Classifier, bufferTime float64, smoothing bool, opts Options) *Pipeline {
	features := opts.Features
	if features == nil {
		features = classify.SummaryFeatures
	}
	return &Pipeline{
		source:     src,
		buffer:     NewSlidingBuffer(int(bufferTime * stream.ArrayUnitSize)),
		controls:   NewControlState(),
		classifier: classifier,
		features:   features,
		smoothing:  smoothing,
		recorder:   opts.Recorder,
	}
}

// Controls exposes the pipeline's control state for the consumer.
func (p *Pipeline) Controls() *ControlState { return p.controls }

// WindowFill reports the current window length and the readiness bound.
func (p *Pipeline) WindowFill() (length, bufferSize int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer.Fill()
}

// Poll runs one cycle with the caller's elapsed frame time in milliseconds
// and returns a snapshot of the control state. Gated ticks return the state
// unchanged; a pulled chunk always remaps the movement flags, with an
// under-filled window classified as noise.
func (p *Pipeline) Poll(elapsedMs float64) map[string]int {
	p.mu.Lock()
	window, pulled := p.buffer.Poll(elapsedMs, p.source)
	p.mu.Unlock()
	if !pulled {
		return p.controls.Snapshot()
	}

	label := classify.LabelNoise
	if window != nil {
		amplitude := window
		if p.smoothing {
			amplitude = dsp.Boxcar(window, len(window)/smoothingDivisor)
		}
		normalized := dsp.Normalize(amplitude)
		label = p.classifier.Predict(p.features(normalized))
	}

	if label != classify.LabelNoise {
		log.Printf("classified window as %q", label)
		if p.recorder != nil {
			if err := p.recorder.RecordLabel(label, len(window)); err != nil {
				log.Printf("failed to record label: %v", err)
			}
		}
	}

	p.controls.Apply(label)
	return p.controls.Snapshot()
}

// Close releases the underlying source. Safe to call exactly once at
// shutdown.
func (p *Pipeline) Close() error {
	return p.source.Close()
}

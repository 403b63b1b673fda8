package classify

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// KNN is a k-nearest-neighbours classifier over a pretrained feature set.
// The artifact is loaded once at construction and never mutated.
type KNN struct {
	K        int         `json:"k"`
	Labels   []string    `json:"labels"`
	Features [][]float64 `json:"features"`
}

// LoadKNN reads a serialized model artifact from path and validates its
// shape.
func LoadKNN(path string) (*KNN, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var model KNN
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, fmt.Errorf("parsing model artifact: %w", err)
	}
	if err := model.validate(); err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return &model, nil
}

func (m *KNN) validate() error {
	if m.K < 1 {
		return fmt.Errorf("k = %d, must be at least 1", m.K)
	}
	if len(m.Labels) == 0 || len(m.Labels) != len(m.Features) {
		return fmt.Errorf("%d labels for %d feature rows", len(m.Labels), len(m.Features))
	}
	width := len(m.Features[0])
	for i, row := range m.Features {
		if len(row) != width {
			return fmt.Errorf("feature row %d has %d values, want %d", i, len(row), width)
		}
	}
	return nil
}

// Predict returns the majority label among the k training rows nearest to
// features by Euclidean distance. Ties break toward the nearer neighbour.
func (m *KNN) Predict(features []float64) string {
	if len(features) != len(m.Features[0]) {
		// Feature width mismatch means the extractor and artifact disagree;
		// treat the window as unclassifiable rather than panicking.
		return LabelNoise
	}
	type neighbour struct {
		distance float64
		label    string
	}
	neighbours := make([]neighbour, len(m.Features))
	for i, row := range m.Features {
		neighbours[i] = neighbour{
			distance: floats.Distance(row, features, 2),
			label:    m.Labels[i],
		}
	}
	sort.Slice(neighbours, func(i, j int) bool {
		return neighbours[i].distance < neighbours[j].distance
	})

	k := m.K
	if k > len(neighbours) {
		k = len(neighbours)
	}
	votes := make(map[string]int)
	best := neighbours[0].label
	for _, n := range neighbours[:k] {
		votes[n.label]++
		if votes[n.label] > votes[best] {
			best = n.label
		}
	}
	return best
}

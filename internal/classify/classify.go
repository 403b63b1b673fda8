// Package classify is the model boundary of the pipeline. The pipeline
// treats feature extraction and prediction as opaque capabilities: a
// FeatureFunc turns a normalized window into a fixed-length vector and a
// Classifier turns that vector into a label.
package classify

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Labels emitted by the shipped models.
const (
	LabelLeft  = "left"
	LabelRight = "right"
	LabelNoise = "noise"
)

// FeatureFunc computes a fixed-length feature vector from a normalized
// analysis window.
type FeatureFunc func(window []float64) []float64

// Classifier predicts a label from a feature vector.
type Classifier interface {
	Predict(features []float64) string
}

// ErrInvalidModelType reports an unrecognized model_type configuration
// value.
var ErrInvalidModelType = errors.New("invalid model type")

// models maps the recognized model type names to their artifact files.
// Every artifact uses the same serialized nearest-neighbour format; the
// three names ship differently tuned training sets.
var models = map[string]string{
	"KNearestNeighbours":     "KNN.json",
	"RandomForestClassifier": "RFC.json",
	"SVM":                    "SVM.json",
}

// Load resolves modelType against the registry and loads its artifact from
// dir. Unknown types fail with ErrInvalidModelType; no partial classifier
// is returned.
func Load(modelType, dir string) (Classifier, error) {
	name, ok := models[modelType]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrInvalidModelType, modelType)
	}
	model, err := LoadKNN(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", modelType, err)
	}
	return model, nil
}

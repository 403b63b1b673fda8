// Package dsp holds the signal conditioning applied to an analysis window
// before feature extraction: boxcar smoothing and amplitude normalization.
package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Boxcar convolves signal with a normalized moving-average kernel of the
// given width and returns a same-length result. Samples past either end are
// treated as zero and the sum is still divided by the full kernel width, so
// boundary samples attenuate toward zero. Even widths are widened by one to a
// centred uniform kernel, an approximation of a half-weighted even kernel.
// Widths below two return a copy of the input.
func Boxcar(signal []float64, width int) []float64 {
	out := make([]float64, len(signal))
	if width < 2 {
		copy(out, signal)
		return out
	}
	if width%2 == 0 {
		width++
	}
	half := width / 2
	for i := range signal {
		var sum float64
		for j := i - half; j <= i+half; j++ {
			if j >= 0 && j < len(signal) {
				sum += signal[j]
			}
		}
		out[i] = sum / float64(width)
	}
	return out
}

// Normalize centres signal on its arithmetic mean and scales so the largest
// absolute value is 1. A flat signal has no amplitude to scale by; the
// centred (all-zero) result is returned unchanged rather than dividing by
// zero.
func Normalize(signal []float64) []float64 {
	out := make([]float64, len(signal))
	if len(signal) == 0 {
		return out
	}
	mean := stat.Mean(signal, nil)
	for i, v := range signal {
		out[i] = v - mean
	}
	amplitude := floats.Norm(out, math.Inf(1))
	if amplitude == 0 {
		return out
	}
	floats.Scale(1/amplitude, out)
	return out
}

package classify

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SummaryFeatures is the default feature extractor: an eight-value summary
// of a normalized window's shape and dynamics. Input is expected to be
// zero-mean with unit peak amplitude; the extractor still behaves on other
// inputs, the features are just less discriminative.
//
// Vector layout: mean, standard deviation, skewness, excess kurtosis,
// RMS, zero-crossing rate, lag-1 autocorrelation, above-half-peak fraction.
func SummaryFeatures(window []float64) []float64 {
	if len(window) < 2 {
		return make([]float64, 8)
	}

	mean := stat.Mean(window, nil)
	std := stat.StdDev(window, nil)
	var skew, kurtosis float64
	if std > 0 {
		// Zero-variance windows would make these moments NaN.
		skew = stat.Skew(window, nil)
		kurtosis = stat.ExKurtosis(window, nil)
	}

	var sumSquares, peak float64
	crossings := 0
	for i, v := range window {
		sumSquares += v * v
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
		if i > 0 && (v >= 0) != (window[i-1] >= 0) {
			crossings++
		}
	}
	rms := math.Sqrt(sumSquares / float64(len(window)))
	crossingRate := float64(crossings) / float64(len(window)-1)

	var autocorr float64
	if std > 0 {
		for i := 1; i < len(window); i++ {
			autocorr += (window[i] - mean) * (window[i-1] - mean)
		}
		autocorr /= float64(len(window)-1) * std * std
	}

	loud := 0
	if peak > 0 {
		for _, v := range window {
			if math.Abs(v) > peak/2 {
				loud++
			}
		}
	}
	loudFraction := float64(loud) / float64(len(window))

	return []float64{mean, std, skew, kurtosis, rms, crossingRate, autocorr, loudFraction}
}

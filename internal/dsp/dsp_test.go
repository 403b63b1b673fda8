package dsp

import (
	"math"
	"testing"
)

const tolerance = 1e-12

func TestBoxcar(t *testing.T) {
	tests := []struct {
		name   string
		signal []float64
		width  int
		want   []float64
	}{
		{
			name:   "width below two copies input",
			signal: []float64{1, 2, 3},
			width:  1,
			want:   []float64{1, 2, 3},
		},
		{
			name:   "width three averages neighbours",
			signal: []float64{3, 3, 3, 3, 3},
			width:  3,
			want:   []float64{2, 3, 3, 3, 2}, // edges see one implicit zero
		},
		{
			name:   "even width widens to odd",
			signal: []float64{0, 0, 6, 0, 0},
			width:  2,
			want:   []float64{0, 2, 2, 2, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Boxcar(tt.signal, tt.width)
			if len(got) != len(tt.signal) {
				t.Fatalf("Boxcar returned %d samples, want %d", len(got), len(tt.signal))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > tolerance {
					t.Errorf("Boxcar[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeProperties(t *testing.T) {
	signals := map[string][]float64{
		"ramp":     {1, 2, 3, 4, 5},
		"negative": {-10, -20, -5, -40},
		"mixed":    {512, 0, -512, 1024, 256, 256},
	}

	for name, signal := range signals {
		t.Run(name, func(t *testing.T) {
			got := Normalize(signal)

			var mean, maxAbs float64
			for _, v := range got {
				mean += v
				if math.Abs(v) > maxAbs {
					maxAbs = math.Abs(v)
				}
			}
			mean /= float64(len(got))

			if math.Abs(mean) > 1e-9 {
				t.Errorf("normalized mean = %v, want 0", mean)
			}
			if math.Abs(maxAbs-1) > 1e-9 {
				t.Errorf("normalized max magnitude = %v, want 1", maxAbs)
			}
		})
	}
}

func TestNormalizeFlatSignal(t *testing.T) {
	// A constant window has zero amplitude after centring; the zero vector
	// comes back instead of a division-by-zero NaN.
	got := Normalize([]float64{7, 7, 7, 7})
	for i, v := range got {
		if v != 0 {
			t.Fatalf("Normalize(flat)[%d] = %v, want 0", i, v)
		}
		if math.IsNaN(v) {
			t.Fatalf("Normalize(flat)[%d] is NaN", i)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Fatalf("Normalize(nil) = %v, want empty", got)
	}
}

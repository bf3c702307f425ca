package transcribe

import (
	"math"
	"testing"
)

func TestLogprobConfidence(t *testing.T) {
	tests := []struct {
		name     string
		logprobs []float64
		want     float64
	}{
		{"no segments", nil, 1.0},
		{"certain segments", []float64{0, 0}, 1.0},
		{"typical segments", []float64{-0.1, -0.3}, math.Exp(-0.2)},
		{"single segment", []float64{-0.5}, math.Exp(-0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logprobConfidence(tt.logprobs)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("logprobConfidence(%v) = %g, want %g", tt.logprobs, got, tt.want)
			}
		})
	}
}

func TestLogprobConfidenceStaysInRange(t *testing.T) {
	for _, logprobs := range [][]float64{{-50, -80}, {-1000}, {-0.0001}} {
		got := logprobConfidence(logprobs)
		if got < 0 || got > 1 {
			t.Errorf("logprobConfidence(%v) = %g, want within [0,1]", logprobs, got)
		}
	}
}

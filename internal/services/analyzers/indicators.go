package analyzers

import (
	"math"

	"SignalDesk/internal/domain/models"
)

// closes extracts close prices from a candle series.
func closes(series models.CandleSeries) []float64 {
	out := make([]float64, series.Len())
	for i, c := range series.Candles() {
		out[i] = c.Close
	}
	return out
}

// sma computes a simple moving average over the last p points, aligned to
// the input length with NaNs during warmup.
func sma(x []float64, p int) []float64 {
	if p <= 0 {
		return nil
	}
	out := make([]float64, len(x))
	var sum float64
	for i := range x {
		sum += x[i]
		if i < p-1 {
			out[i] = math.NaN()
			continue
		}
		if i >= p {
			sum -= x[i-p]
		}
		out[i] = sum / float64(p)
	}
	return out
}

// roc is the rate of change over p periods: (x[i] - x[i-p]) / x[i-p].
// NaN during warmup or when the base is zero.
func roc(x []float64, p int) []float64 {
	if p <= 0 {
		return nil
	}
	out := make([]float64, len(x))
	for i := range x {
		if i < p || x[i-p] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (x[i] - x[i-p]) / x[i-p]
	}
	return out
}

// last returns the final value of a slice and false when it is empty or NaN.
func last(x []float64) (float64, bool) {
	if len(x) == 0 {
		return 0, false
	}
	v := x[len(x)-1]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

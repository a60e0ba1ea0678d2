package models

import "time"

// Candle represents one closed OHLCV bucket.
type Candle struct {
	Bucket time.Time `json:"bucket"`
	Symbol string    `json:"symbol"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// CandleSeries is a time-ordered, immutable sequence of closed candles.
// Slicing operations return views over the same backing array; the series
// itself is never mutated after construction.
type CandleSeries struct {
	candles []Candle
}

// NewCandleSeries builds a series from candles assumed sorted by bucket
// ascending. The input slice is not copied; callers must not mutate it after.
func NewCandleSeries(candles []Candle) CandleSeries {
	return CandleSeries{candles: candles}
}

func (s CandleSeries) Len() int { return len(s.candles) }

func (s CandleSeries) IsEmpty() bool { return len(s.candles) == 0 }

// At returns the candle at index i.
func (s CandleSeries) At(i int) Candle { return s.candles[i] }

// Last returns the most recent candle and false when the series is empty.
func (s CandleSeries) Last() (Candle, bool) {
	if len(s.candles) == 0 {
		return Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// Candles returns the underlying slice. Read-only by convention.
func (s CandleSeries) Candles() []Candle { return s.candles }

// UpTo returns the sub-series of candles with Bucket <= ts. The boundary is
// inclusive: a candle stamped exactly at ts is already closed at ts.
func (s CandleSeries) UpTo(ts time.Time) CandleSeries {
	i := s.searchAfter(ts)
	return CandleSeries{candles: s.candles[:i]}
}

// AtOrAfter returns the sub-series of candles with Bucket >= ts.
func (s CandleSeries) AtOrAfter(ts time.Time) CandleSeries {
	i := s.searchAtOrAfter(ts)
	return CandleSeries{candles: s.candles[i:]}
}

// Between returns candles with ts from <= Bucket <= to.
func (s CandleSeries) Between(from, to time.Time) CandleSeries {
	lo := s.searchAtOrAfter(from)
	hi := s.searchAfter(to)
	if lo > hi {
		lo = hi
	}
	return CandleSeries{candles: s.candles[lo:hi]}
}

// First returns the earliest candle and false when the series is empty.
func (s CandleSeries) First() (Candle, bool) {
	if len(s.candles) == 0 {
		return Candle{}, false
	}
	return s.candles[0], true
}

// searchAtOrAfter returns the first index i with Bucket >= ts.
func (s CandleSeries) searchAtOrAfter(ts time.Time) int {
	lo, hi := 0, len(s.candles)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.candles[mid].Bucket.Before(ts) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// searchAfter returns the first index i with Bucket > ts.
func (s CandleSeries) searchAfter(ts time.Time) int {
	lo, hi := 0, len(s.candles)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.candles[mid].Bucket.After(ts) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

package analyzers

import (
	"context"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
)

func seriesFromCloses(start time.Time, step time.Duration, closes []float64) models.CandleSeries {
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Bucket: start.Add(time.Duration(i) * step),
			Symbol: "BTCUSDT",
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1,
		}
	}
	return models.NewCandleSeries(candles)
}

func risingCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestTrendAnalyzerRisingMarket(t *testing.T) {
	weekly := seriesFromCloses(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 7*24*time.Hour, risingCloses(40, 100, 2))
	dctx := models.DecisionContext{Symbol: "BTCUSDT", ClosedWeekly: weekly, Timestamp: time.Now()}

	res, err := NewTrendAnalyzer().Analyze(context.Background(), dctx)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Status != models.StatusOK {
		t.Fatalf("Status = %s, want ok", res.Status)
	}
	if res.State != models.StateUp {
		t.Fatalf("State = %s, want up", res.State)
	}
	if res.Score <= 0 {
		t.Fatalf("Score = %f, want > 0", res.Score)
	}
}

func TestTrendAnalyzerShortSeriesDegrades(t *testing.T) {
	weekly := seriesFromCloses(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 7*24*time.Hour, risingCloses(5, 100, 2))
	dctx := models.DecisionContext{Symbol: "BTCUSDT", ClosedWeekly: weekly}

	res, err := NewTrendAnalyzer().Analyze(context.Background(), dctx)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Status != models.StatusDegraded {
		t.Fatalf("Status = %s, want degraded", res.Status)
	}
	if res.Contribution != 0 {
		t.Fatalf("Contribution = %f, want 0 for non-OK status", res.Contribution)
	}
}

func TestMomentumAnalyzerDirection(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   models.AnalyzerState
	}{
		{"rising", risingCloses(30, 100, 1), models.StateUp},
		{"falling", risingCloses(30, 100, -1), models.StateDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			daily := seriesFromCloses(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 24*time.Hour, tt.closes)
			dctx := models.DecisionContext{Symbol: "BTCUSDT", ClosedDaily: daily}

			res, err := NewMomentumAnalyzer().Analyze(context.Background(), dctx)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if res.State != tt.want {
				t.Fatalf("State = %s, want %s", res.State, tt.want)
			}
		})
	}
}

func TestWeeklyTailsLowerWicksReadUp(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 10)
	for i := range candles {
		// long lower wick, no upper wick
		candles[i] = models.Candle{
			Bucket: start.Add(time.Duration(i) * 7 * 24 * time.Hour),
			Symbol: "BTCUSDT",
			Open:   100,
			High:   102,
			Low:    90,
			Close:  102,
			Volume: 1,
		}
	}
	dctx := models.DecisionContext{Symbol: "BTCUSDT", ClosedWeekly: models.NewCandleSeries(candles)}

	res, err := NewWeeklyTailsAnalyzer().Analyze(context.Background(), dctx)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.State != models.StateUp {
		t.Fatalf("State = %s, want up", res.State)
	}
	if res.Score <= 0.5 {
		t.Fatalf("Score = %f, want dominant lower wicks to score high", res.Score)
	}
}

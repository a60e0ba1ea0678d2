package backtest

import (
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
)

func dayAt(d int) time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func dailyAt(days []int, closes []float64) models.CandleSeries {
	cs := make([]models.Candle, len(days))
	for i, d := range days {
		c := closes[i]
		cs[i] = models.Candle{Bucket: dayAt(d), Symbol: "BTCUSDT", Open: c, High: c, Low: c, Close: c}
	}
	return models.NewCandleSeries(cs)
}

func pendingRecord(signal models.Signal, entry float64) *models.SignalRecord {
	return &models.SignalRecord{
		Symbol:    "BTCUSDT",
		EmittedAt: dayAt(0),
		Decision: models.DecisionResult{
			Signal:            signal,
			Confidence:        0.6,
			PriceLevel:        entry,
			AnalysisTimestamp: dayAt(0),
		},
	}
}

func TestExactWindowResolution(t *testing.T) {
	daily := dailyAt([]int{0, 7, 14, 21}, []float64{100, 101, 110, 120})
	out := ValidateOutcome(pendingRecord(models.SignalLong, 100), 14, daily)
	if out == nil {
		t.Fatal("expected resolution")
	}
	if out.Tier != models.TierExact {
		t.Fatalf("tier = %s, want exact", out.Tier)
	}
	if out.ExitPrice != 110 || out.PnlPct != 10 || !out.Success {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestFlexibleWindowSkipsMissingDay(t *testing.T) {
	// No row at day 14 or 15; day 16 sits inside the 7-day flexible window.
	daily := dailyAt([]int{0, 7, 16}, []float64{100, 101, 105})
	out := ValidateOutcome(pendingRecord(models.SignalLong, 100), 14, daily)
	if out == nil {
		t.Fatal("expected resolution")
	}
	if out.Tier != models.TierFlexible {
		t.Fatalf("tier = %s, want flexible", out.Tier)
	}
	if out.PnlPct != 5.0 || !out.Success {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestFallbackWindowTakesFirstFutureRow(t *testing.T) {
	daily := dailyAt([]int{0, 7, 40}, []float64{100, 101, 90})
	out := ValidateOutcome(pendingRecord(models.SignalLong, 100), 14, daily)
	if out == nil {
		t.Fatal("expected resolution")
	}
	if out.Tier != models.TierFallback {
		t.Fatalf("tier = %s, want fallback", out.Tier)
	}
	if out.Success {
		t.Fatalf("losing long marked success: %+v", out)
	}
}

func TestUnresolvedWhenNoFutureData(t *testing.T) {
	daily := dailyAt([]int{0, 7}, []float64{100, 101})
	if out := ValidateOutcome(pendingRecord(models.SignalLong, 100), 14, daily); out != nil {
		t.Fatalf("expected unresolved, got %+v", out)
	}
}

func TestPnlSigns(t *testing.T) {
	cases := []struct {
		name    string
		signal  models.Signal
		exit    float64
		wantPnl float64
		wantWin bool
	}{
		{"long up", models.SignalLong, 110, 10, true},
		{"long down", models.SignalLong, 90, -10, false},
		{"short down", models.SignalShort, 90, 10, true},
		{"short up", models.SignalShort, 110, -10, false},
		{"long flat is failure", models.SignalLong, 100, 0, false},
		{"short flat is failure", models.SignalShort, 100, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			daily := dailyAt([]int{0, 14}, []float64{100, tc.exit})
			out := ValidateOutcome(pendingRecord(tc.signal, 100), 14, daily)
			if out == nil {
				t.Fatal("expected resolution")
			}
			if out.PnlPct != tc.wantPnl {
				t.Fatalf("pnl = %v, want %v", out.PnlPct, tc.wantPnl)
			}
			if out.Success != tc.wantWin {
				t.Fatalf("success = %v, want %v", out.Success, tc.wantWin)
			}
		})
	}
}

package backtest

import (
	"time"

	"SignalDesk/internal/domain/models"
)

// windowStrategy is one tier of the date-window fallback: a pure function
// from (entry date, full daily series) to an optional resolution candle.
type windowStrategy struct {
	tier models.ResolutionTier
	pick func(entry time.Time, holdingDays int, daily models.CandleSeries) (models.Candle, bool)
}

// resolutionTiers are tried in order; the first hit wins. The tiers widen to
// tolerate missing calendar days (weekends, exchange holidays, feed gaps).
var resolutionTiers = []windowStrategy{
	{models.TierExact, exactWindow},
	{models.TierFlexible, flexibleWindow},
	{models.TierFallback, fallbackWindow},
}

// exactWindow picks the first row within [entry+h, entry+h+1] days.
func exactWindow(entry time.Time, holdingDays int, daily models.CandleSeries) (models.Candle, bool) {
	target := entry.AddDate(0, 0, holdingDays)
	return daily.Between(target, target.AddDate(0, 0, 1)).First()
}

// flexibleWindow widens to [entry+h, entry+h+7] days.
func flexibleWindow(entry time.Time, holdingDays int, daily models.CandleSeries) (models.Candle, bool) {
	target := entry.AddDate(0, 0, holdingDays)
	return daily.Between(target, target.AddDate(0, 0, 7)).First()
}

// fallbackWindow takes the first available row at or after entry+h days.
func fallbackWindow(entry time.Time, holdingDays int, daily models.CandleSeries) (models.Candle, bool) {
	return daily.AtOrAfter(entry.AddDate(0, 0, holdingDays)).First()
}

// ValidateOutcome resolves a pending signal against the full daily series.
// Validation deliberately sees the future; only decision-making is
// restricted. Returns nil when no future row exists at all; the record then
// stays unresolved and out of the statistics.
func ValidateOutcome(rec *models.SignalRecord, holdingDays int, fullDaily models.CandleSeries) *models.Outcome {
	entryPrice := rec.Decision.PriceLevel
	if entryPrice <= 0 {
		return nil
	}

	for _, tier := range resolutionTiers {
		exit, ok := tier.pick(rec.EmittedAt, holdingDays, fullDaily)
		if !ok {
			continue
		}
		pnl := pnlPct(rec.Decision.Signal, entryPrice, exit.Close)
		return &models.Outcome{
			EntryPrice: entryPrice,
			ExitPrice:  exit.Close,
			PnlPct:     pnl,
			Success:    pnl > 0, // exactly zero counts as failure
			ResolvedAt: exit.Bucket,
			Tier:       tier.tier,
		}
	}
	return nil
}

func pnlPct(signal models.Signal, entry, exit float64) float64 {
	switch signal {
	case models.SignalShort:
		return (entry - exit) / entry * 100
	default:
		return (exit - entry) / entry * 100
	}
}

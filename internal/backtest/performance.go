package backtest

import (
	"math"

	"SignalDesk/internal/domain/models"
)

// ProfitFactorNoLosses is the sentinel reported when a run has gross profit
// but no losing trade at all, instead of dividing by zero.
const ProfitFactorNoLosses = 999.0

const tradingPeriodsPerYear = 252

// Summarize reduces resolved signal records into one PerformanceSummary.
// HOLD steps and unresolved records are counted but excluded from every
// statistic. The input order is assumed chronological; the equity curve for
// drawdown follows it.
func Summarize(records []models.SignalRecord, holdSteps int, riskFreeRate float64) models.PerformanceSummary {
	sum := models.PerformanceSummary{HoldSteps: holdSteps}

	pnls := make([]float64, 0, len(records))
	var grossProfit, grossLoss float64
	var winPnl, lossPnl float64
	var wins, losses int

	for i := range records {
		rec := &records[i]
		sum.TotalSignals++
		if !rec.Resolved() {
			sum.UnresolvedSignals++
			continue
		}
		sum.ResolvedSignals++

		out := rec.Outcome
		pnls = append(pnls, out.PnlPct)
		sum.NetPnlPct += out.PnlPct

		switch rec.Decision.Signal {
		case models.SignalLong:
			sum.LongCount++
			if out.Success {
				sum.LongWins++
			}
		case models.SignalShort:
			sum.ShortCount++
			if out.Success {
				sum.ShortWins++
			}
		}

		if out.Success {
			wins++
			winPnl += out.PnlPct
		} else {
			losses++
			lossPnl += out.PnlPct
		}
		if out.PnlPct > 0 {
			grossProfit += out.PnlPct
		} else {
			grossLoss += -out.PnlPct
		}

		if sum.ResolvedSignals == 1 {
			sum.BestPnlPct, sum.WorstPnlPct = out.PnlPct, out.PnlPct
		} else {
			if out.PnlPct > sum.BestPnlPct {
				sum.BestPnlPct = out.PnlPct
			}
			if out.PnlPct < sum.WorstPnlPct {
				sum.WorstPnlPct = out.PnlPct
			}
		}
	}

	if sum.ResolvedSignals > 0 {
		sum.Accuracy = float64(wins) / float64(sum.ResolvedSignals)
		sum.MeanPnlPct = sum.NetPnlPct / float64(sum.ResolvedSignals)
	}
	if sum.LongCount > 0 {
		sum.LongAccuracy = float64(sum.LongWins) / float64(sum.LongCount)
	}
	if sum.ShortCount > 0 {
		sum.ShortAccuracy = float64(sum.ShortWins) / float64(sum.ShortCount)
	}
	if wins > 0 {
		sum.MeanWinPnlPct = winPnl / float64(wins)
	}
	if losses > 0 {
		sum.MeanLossPnlPct = lossPnl / float64(losses)
	}

	sum.MaxDrawdownPct = maxDrawdown(pnls)
	sum.SharpeRatio = sharpe(pnls, riskFreeRate)

	switch {
	case grossLoss > 0:
		sum.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		sum.ProfitFactor = ProfitFactorNoLosses
	}

	if sum.MaxDrawdownPct > 0 {
		sum.RecoveryFactor = sum.NetPnlPct / sum.MaxDrawdownPct
	}
	return sum
}

// maxDrawdown compounds each trade's pnl over a unit equity curve and
// reports the largest peak-to-trough decline in percent, always in [0,100].
func maxDrawdown(pnls []float64) float64 {
	equity := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, p := range pnls {
		equity *= 1 + p/100
		if equity < 0 {
			equity = 0
		}
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			dd := (peak - equity) / peak * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpe annualizes per-trade pnl with the standard 252-period scaling.
// Defined as zero for fewer than two trades or zero variance.
func sharpe(pnls []float64, riskFreeRate float64) float64 {
	n := len(pnls)
	if n < 2 {
		return 0
	}
	var mean float64
	for _, p := range pnls {
		mean += p
	}
	mean /= float64(n)

	var variance float64
	for _, p := range pnls {
		d := p - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	if variance == 0 {
		return 0
	}
	std := math.Sqrt(variance)
	return (mean*tradingPeriodsPerYear - riskFreeRate) / (std * math.Sqrt(tradingPeriodsPerYear))
}

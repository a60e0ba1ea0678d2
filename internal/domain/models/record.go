package models

import "time"

// ResolutionTier names which date-window strategy resolved an outcome.
type ResolutionTier string

const (
	TierExact      ResolutionTier = "exact"
	TierFlexible   ResolutionTier = "flexible"
	TierFallback   ResolutionTier = "fallback"
	TierUnresolved ResolutionTier = "unresolved"
)

// Outcome is the validated result of one emitted signal after its holding
// period elapsed.
type Outcome struct {
	EntryPrice float64        `json:"entry_price"`
	ExitPrice  float64        `json:"exit_price"`
	PnlPct     float64        `json:"pnl_pct"`
	Success    bool           `json:"success"`
	ResolvedAt time.Time      `json:"resolved_at"`
	Tier       ResolutionTier `json:"tier"`
}

// SignalRecord is one backtest step's emitted decision plus, once the
// holding period has elapsed, its outcome. Resolved exactly once, then
// immutable history.
type SignalRecord struct {
	Symbol    string         `json:"symbol"`
	EmittedAt time.Time      `json:"emitted_at"`
	Decision  DecisionResult `json:"decision"`
	Outcome   *Outcome       `json:"outcome,omitempty"`
}

// Resolved reports whether the record carries a validated outcome.
func (r *SignalRecord) Resolved() bool { return r.Outcome != nil }

// PerformanceSummary is derived on demand from the resolved records of one
// backtest run; never mutated in place.
type PerformanceSummary struct {
	TotalSignals      int `json:"total_signals"`      // non-HOLD signals emitted
	ResolvedSignals   int `json:"resolved_signals"`   // signals with a validated outcome
	UnresolvedSignals int `json:"unresolved_signals"` // excluded from all statistics below
	HoldSteps         int `json:"hold_steps"`

	LongCount     int     `json:"long_count"`
	ShortCount    int     `json:"short_count"`
	LongWins      int     `json:"long_wins"`
	ShortWins     int     `json:"short_wins"`
	Accuracy      float64 `json:"accuracy"` // wins / resolved
	LongAccuracy  float64 `json:"long_accuracy"`
	ShortAccuracy float64 `json:"short_accuracy"`

	MeanPnlPct     float64 `json:"mean_pnl_pct"`
	MeanWinPnlPct  float64 `json:"mean_win_pnl_pct"`
	MeanLossPnlPct float64 `json:"mean_loss_pnl_pct"`
	BestPnlPct     float64 `json:"best_pnl_pct"`
	WorstPnlPct    float64 `json:"worst_pnl_pct"`
	NetPnlPct      float64 `json:"net_pnl_pct"` // arithmetic sum across trades

	MaxDrawdownPct float64 `json:"max_drawdown_pct"` // 0..100
	SharpeRatio    float64 `json:"sharpe_ratio"`
	ProfitFactor   float64 `json:"profit_factor"`
	RecoveryFactor float64 `json:"recovery_factor"`
}

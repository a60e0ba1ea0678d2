package models

import "time"

// Signal is the final directional call of the decision engine.
type Signal string

const (
	SignalLong  Signal = "LONG"
	SignalShort Signal = "SHORT"
	SignalHold  Signal = "HOLD"
)

// DecisionContext carries everything a single decision is allowed to see.
// Both series must contain only candles fully closed as of Timestamp; the
// backtester enforces this by slicing, the live path by only loading closed
// buckets.
type DecisionContext struct {
	Symbol       string
	ClosedDaily  CandleSeries
	ClosedWeekly CandleSeries
	Timestamp    time.Time
	Strategy     StrategyConfig
}

// DecisionResult is the engine's output, identical in shape for the live
// path and the backtester.
type DecisionResult struct {
	Signal            Signal                 `json:"signal"`
	Confidence        float64                `json:"confidence"`
	Reasons           []string               `json:"reasons"`
	Metrics           map[string]interface{} `json:"metrics,omitempty"`
	PriceLevel        float64                `json:"price_level"`
	AnalysisTimestamp time.Time              `json:"analysis_timestamp"`
}

// HoldResult builds a zero-confidence HOLD carrying a single reason. Used
// whenever the engine demotes a failure to a conservative non-decision.
func HoldResult(ts time.Time, price float64, reason string) DecisionResult {
	return DecisionResult{
		Signal:            SignalHold,
		Confidence:        0,
		Reasons:           []string{reason},
		PriceLevel:        price,
		AnalysisTimestamp: ts,
	}
}

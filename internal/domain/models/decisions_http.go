package models

// Requests for decision HTTP endpoints. Defined in domain for consistency and reuse.

type DecisionRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	At     string `query:"at" json:"at,omitempty"` // RFC3339 or unix seconds; defaults to now
}

type BacktestRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from" validate:"required"`
	To     string `query:"to" json:"to" validate:"required"`
	Warmup int    `query:"warmup" json:"warmup" default:"26" validate:"gte=0,lte=520"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from,omitempty"`
	To     string `query:"to" json:"to,omitempty"`
	Limit  int    `query:"limit" json:"limit,omitempty" default:"100" validate:"gte=0,lte=1000"`
}

// BacktestResponse pairs the ordered signal history with its summary.
type BacktestResponse struct {
	Symbol  string             `json:"symbol"`
	Records []SignalRecord     `json:"records"`
	Summary PerformanceSummary `json:"summary"`
}

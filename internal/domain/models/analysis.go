package models

// AnalyzerStatus describes the health of a single analyzer run.
type AnalyzerStatus string

const (
	StatusOK       AnalyzerStatus = "ok"
	StatusDegraded AnalyzerStatus = "degraded"
	StatusDisabled AnalyzerStatus = "disabled"
	StatusError    AnalyzerStatus = "error"
)

// AnalyzerState is the directional opinion of a single analyzer.
type AnalyzerState string

const (
	StateLong    AnalyzerState = "long"
	StateShort   AnalyzerState = "short"
	StateHold    AnalyzerState = "hold"
	StateUp      AnalyzerState = "up"
	StateDown    AnalyzerState = "down"
	StateNeutral AnalyzerState = "neutral"
)

// Side resolves the state to a tradeable direction. UP counts as LONG and
// DOWN as SHORT; HOLD and NEUTRAL resolve to no direction.
func (s AnalyzerState) Side() (Signal, bool) {
	switch s {
	case StateLong, StateUp:
		return SignalLong, true
	case StateShort, StateDown:
		return SignalShort, true
	default:
		return SignalHold, false
	}
}

// AnalysisResult is the immutable output of one analyzer module.
type AnalysisResult struct {
	Status       AnalyzerStatus         `json:"status"`
	State        AnalyzerState          `json:"state"`
	Score        float64                `json:"score"`        // raw conviction, 0..1
	Contribution float64                `json:"contribution"` // score pre-multiplied by module weight
	Reason       string                 `json:"reason"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// NewAnalysisResult normalizes a result at construction: a non-OK status
// always carries zero contribution and a neutral state, regardless of what
// the analyzer reported.
func NewAnalysisResult(status AnalyzerStatus, state AnalyzerState, score, contribution float64, reason string) AnalysisResult {
	r := AnalysisResult{
		Status:       status,
		State:        state,
		Score:        clamp01(score),
		Contribution: clamp01(contribution),
		Reason:       reason,
	}
	if r.Status != StatusOK {
		r.Contribution = 0
		r.State = StateNeutral
	}
	return r
}

// ErrorResult builds the canonical result for a failed analyzer.
func ErrorResult(reason string) AnalysisResult {
	return NewAnalysisResult(StatusError, StateNeutral, 0, 0, reason)
}

// DisabledResult builds the canonical result for a disabled analyzer.
func DisabledResult(reason string) AnalysisResult {
	return NewAnalysisResult(StatusDisabled, StateNeutral, 0, 0, reason)
}

// WithMetadata returns a copy carrying the given metadata mapping.
func (r AnalysisResult) WithMetadata(md map[string]interface{}) AnalysisResult {
	r.Metadata = md
	return r
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

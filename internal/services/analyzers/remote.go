package analyzers

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	xhttp "SignalDesk/pkg/http"
)

const remoteCloseWindow = 64

// RemoteAnalyzer delegates analysis to an external HTTP service, typically a
// Python model server. The remote side sees only the closed closes the
// decision is allowed to see; failures surface as errors and get demoted to
// ERROR results at the resolver boundary.
type RemoteAnalyzer struct {
	name    string
	baseURL string
	client  *xhttp.Client
}

func NewRemoteAnalyzer(name, baseURL string, timeout time.Duration) *RemoteAnalyzer {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &RemoteAnalyzer{
		name:    name,
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (a *RemoteAnalyzer) Name() string { return a.name }

type remoteAnalyzeRequest struct {
	Symbol       string    `json:"symbol"`
	Timestamp    time.Time `json:"timestamp"`
	DailyCloses  []float64 `json:"daily_closes"`
	WeeklyCloses []float64 `json:"weekly_closes"`
}

type remoteAnalyzeResponse struct {
	State  string  `json:"state"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

func (a *RemoteAnalyzer) Analyze(ctx context.Context, dctx models.DecisionContext) (models.AnalysisResult, error) {
	if a.baseURL == "" {
		return models.AnalysisResult{}, fmt.Errorf("remote analyzer %s: base URL not configured", a.name)
	}

	payload := remoteAnalyzeRequest{
		Symbol:       dctx.Symbol,
		Timestamp:    dctx.Timestamp,
		DailyCloses:  tailFloats(closes(dctx.ClosedDaily), remoteCloseWindow),
		WeeklyCloses: tailFloats(closes(dctx.ClosedWeekly), remoteCloseWindow),
	}

	var resp remoteAnalyzeResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    a.baseURL + "/analyze",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, &resp)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("remote analyzer %s: %w", a.name, err)
	}

	state := models.AnalyzerState(resp.State)
	if _, directional := state.Side(); !directional && state != models.StateHold && state != models.StateNeutral {
		return models.AnalysisResult{}, fmt.Errorf("remote analyzer %s: unknown state %q", a.name, resp.State)
	}

	return models.NewAnalysisResult(models.StatusOK, state, resp.Score, 0, resp.Reason), nil
}

func tailFloats(x []float64, n int) []float64 {
	if len(x) <= n {
		return x
	}
	return x[len(x)-n:]
}

package service

import (
	"context"

	"SignalDesk/internal/domain/models"
)

// Analyzer is the capability contract one analysis module satisfies. An
// analyzer must never panic or error past its own boundary; the resolver
// converts any failure into an ERROR-status AnalysisResult before results
// reach the decision engine.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, dctx models.DecisionContext) (models.AnalysisResult, error)
}

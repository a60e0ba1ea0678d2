package usecase

import (
	"context"
	"fmt"
	"sync"

	"SignalDesk/internal/domain/models"
	domsvc "SignalDesk/internal/domain/service"
	applogger "SignalDesk/pkg/logger"
)

// AnalyzerResolver fans out to the registered analyzers and collects one
// AnalysisResult per module. This is the only boundary where analyzer
// failures exist as errors: everything past here is an ERROR-status result.
type AnalyzerResolver struct {
	analyzers []domsvc.Analyzer
	disabled  map[string]bool
	logger    *applogger.Logger
}

func NewAnalyzerResolver(analyzers []domsvc.Analyzer, disabled []string, logger *applogger.Logger) *AnalyzerResolver {
	dis := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		dis[name] = true
	}
	return &AnalyzerResolver{analyzers: analyzers, disabled: dis, logger: logger}
}

// Resolve runs every analyzer concurrently against the same leak-free
// context and returns the per-module results. Contribution is filled here:
// the analyzer's raw score pre-multiplied by its configured weight. Panics
// and errors become ERROR-status results, never propagate.
func (r *AnalyzerResolver) Resolve(ctx context.Context, dctx models.DecisionContext) map[string]models.AnalysisResult {
	type item struct {
		name string
		res  models.AnalysisResult
	}
	ch := make(chan item, len(r.analyzers))
	var wg sync.WaitGroup

	for _, a := range r.analyzers {
		if r.disabled[a.Name()] {
			ch <- item{a.Name(), models.DisabledResult("analyzer disabled by configuration")}
			continue
		}
		wg.Add(1)
		go func(a domsvc.Analyzer) {
			defer wg.Done()
			ch <- item{a.Name(), r.runOne(ctx, a, dctx)}
		}(a)
	}

	go func() { wg.Wait(); close(ch) }()

	out := make(map[string]models.AnalysisResult, len(r.analyzers))
	for it := range ch {
		res := it.res
		// contribution carries the module weight so the combiner stays a
		// plain sum
		weight := dctx.Strategy.Weight(it.name)
		res = models.NewAnalysisResult(res.Status, res.State, res.Score, res.Score*weight, res.Reason).WithMetadata(res.Metadata)
		out[it.name] = res
	}
	return out
}

func (r *AnalyzerResolver) runOne(ctx context.Context, a domsvc.Analyzer, dctx models.DecisionContext) (res models.AnalysisResult) {
	defer func() {
		if p := recover(); p != nil {
			if r.logger != nil {
				r.logger.Error("analyzer panicked",
					applogger.String("analyzer", a.Name()),
					applogger.Any("panic", p),
				)
			}
			res = models.ErrorResult(fmt.Sprintf("analyzer %s panicked: %v", a.Name(), p))
		}
	}()

	res, err := a.Analyze(ctx, dctx)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("analyzer failed",
				applogger.String("analyzer", a.Name()),
				applogger.Error(err),
			)
		}
		return models.ErrorResult(fmt.Sprintf("analyzer %s: %v", a.Name(), err))
	}
	return res
}

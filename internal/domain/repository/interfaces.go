package repository

import (
	"context"
	"time"

	"SignalDesk/internal/domain/models"
)

// CandleStore provides read-only access to closed candles for decisions and
// backtests. Implementations must return candles sorted by bucket ascending
// and must only ever return fully closed buckets.
type CandleStore interface {
	GetCandles(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) (models.CandleSeries, error)
	GetCandlesUpTo(ctx context.Context, symbol string, asOf time.Time, n int, tf Timeframe) (models.CandleSeries, error)
	Health(ctx context.Context) error
}

// SignalLog persists the flat historical log of emitted signals.
type SignalLog interface {
	Append(ctx context.Context, rec *models.SignalRecord) error
	AppendBatch(ctx context.Context, recs []models.SignalRecord) error
	List(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.SignalRecord, error)
	Close() error
}

// DecisionPublisher pushes emitted decisions to downstream consumers.
type DecisionPublisher interface {
	Publish(ctx context.Context, symbol string, res *models.DecisionResult) error
	Close() error
}

// Metrics records operational observations.
type Metrics interface {
	RecordDecision(symbol, signal string)
	RecordGateFailure(symbol, gate string)
	RecordBacktestStep(symbol, signal string)
	RecordBacktestStepError(symbol string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	pkgch "SignalDesk/pkg/clickhouse"
	applogger "SignalDesk/pkg/logger"
)

// CHCandleStore implements CandleStore backed by ClickHouse. The candle
// table holds pre-aggregated daily and weekly buckets keyed by (symbol, tf,
// bucket); only closed buckets are ever written, so reads need no
// closed-candle filtering beyond the time bounds.
type CHCandleStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client, table string) *CHCandleStore {
	return &CHCandleStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHCandleStore) GetCandles(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) (models.CandleSeries, error) {
	start := time.Now()
	const qtpl = `
        SELECT bucket, symbol, open, high, low, close, vol
        FROM %s
        WHERE symbol = ? AND tf = ? AND bucket >= ? AND bucket <= ?
        ORDER BY bucket ASC
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, string(tf), from, to)
	if err != nil {
		s.logErr("clickhouse get_candles query error", symbol, tf, err)
		return models.CandleSeries{}, fmt.Errorf("get candles: %w", err)
	}
	defer rows.Close()

	out, err := scanCandles(rows)
	if err != nil {
		s.logErr("clickhouse get_candles scan error", symbol, tf, err)
		return models.CandleSeries{}, err
	}
	if s.l != nil {
		s.l.Debug("clickhouse get_candles ok",
			applogger.String("symbol", symbol),
			applogger.String("tf", string(tf)),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return models.NewCandleSeries(out), nil
}

// GetCandlesUpTo returns the n most recent closed candles with bucket <=
// asOf, oldest first. The inclusive asOf bound is what keeps live decisions
// leak-free.
func (s *CHCandleStore) GetCandlesUpTo(ctx context.Context, symbol string, asOf time.Time, n int, tf domrepo.Timeframe) (models.CandleSeries, error) {
	const qtpl = `
        SELECT bucket, symbol, open, high, low, close, vol
        FROM %s
        WHERE symbol = ? AND tf = ? AND bucket <= ?
        ORDER BY bucket DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, string(tf), asOf, n)
	if err != nil {
		s.logErr("clickhouse candles_up_to query error", symbol, tf, err)
		return models.CandleSeries{}, fmt.Errorf("get candles up to: %w", err)
	}
	defer rows.Close()

	out, err := scanCandles(rows)
	if err != nil {
		s.logErr("clickhouse candles_up_to scan error", symbol, tf, err)
		return models.CandleSeries{}, err
	}
	// DESC query, ascending series
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return models.NewCandleSeries(out), nil
}

func (s *CHCandleStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanCandles(rows *sql.Rows) ([]models.Candle, error) {
	out := make([]models.Candle, 0, 1024)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Bucket, &c.Symbol, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHCandleStore) logErr(msg, symbol string, tf domrepo.Timeframe, err error) {
	if s.l == nil {
		return
	}
	s.l.Error(msg,
		applogger.String("symbol", symbol),
		applogger.String("tf", string(tf)),
		applogger.Error(err),
	)
}

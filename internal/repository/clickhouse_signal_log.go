package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
)

// CHSignalLog persists the flat historical log of emitted signals in
// ClickHouse. One row per signal; the full decision and outcome ride along
// as JSON for audit.
type CHSignalLog struct {
	db    *sql.DB
	table string
}

func NewCHSignalLog(db *sql.DB, table string) domrepo.SignalLog {
	return &CHSignalLog{db: db, table: table}
}

func (s *CHSignalLog) Append(ctx context.Context, rec *models.SignalRecord) error {
	q := fmt.Sprintf("INSERT INTO %s (emitted_at, symbol, signal, confidence, price_level, resolved, pnl_pct, tier, decision_json) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	args, err := rowArgs(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *CHSignalLog) AppendBatch(ctx context.Context, recs []models.SignalRecord) error {
	if len(recs) == 0 {
		return nil
	}
	// Multi-row VALUES insert to reduce round-trips; chunked so a long
	// backtest cannot build an unbounded statement.
	const chunkSize = 500
	for start := 0; start < len(recs); start += chunkSize {
		end := start + chunkSize
		if end > len(recs) {
			end = len(recs)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for i := start; i < end; i++ {
			a, err := rowArgs(&recs[i])
			if err != nil {
				return err
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, a...)
		}
		q := fmt.Sprintf("INSERT INTO %s (emitted_at, symbol, signal, confidence, price_level, resolved, pnl_pct, tier, decision_json) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *CHSignalLog) List(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.SignalRecord, error) {
	q := fmt.Sprintf("SELECT decision_json FROM %s WHERE symbol = ? AND emitted_at >= ? AND emitted_at <= ? ORDER BY emitted_at ASC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SignalRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec models.SignalRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode signal record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *CHSignalLog) Close() error {
	return nil // pool managed by pkg/clickhouse
}

func rowArgs(rec *models.SignalRecord) ([]interface{}, error) {
	blob, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode signal record: %w", err)
	}
	resolved := uint8(0)
	pnl := 0.0
	tier := string(models.TierUnresolved)
	if rec.Outcome != nil {
		resolved = 1
		pnl = rec.Outcome.PnlPct
		tier = string(rec.Outcome.Tier)
	}
	return []interface{}{
		rec.EmittedAt,
		rec.Symbol,
		string(rec.Decision.Signal),
		rec.Decision.Confidence,
		rec.Decision.PriceLevel,
		resolved,
		pnl,
		tier,
		string(blob),
	}, nil
}

package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	"SignalDesk/pkg/util"
)

// CSVCandleStore serves candles loaded from per-timeframe CSV files. It backs
// the one-shot backtest command so a run needs no database. All series are
// loaded eagerly at construction and held in memory.
//
// Expected columns: bucket,symbol,open,high,low,close,volume with a header
// row. Bucket accepts RFC3339, 2006-01-02 or unix seconds.
type CSVCandleStore struct {
	series map[domrepo.Timeframe]models.CandleSeries
}

// NewCSVCandleStore loads the daily and weekly files for one symbol.
func NewCSVCandleStore(dailyPath, weeklyPath string) (*CSVCandleStore, error) {
	daily, err := loadCandleCSV(dailyPath)
	if err != nil {
		return nil, fmt.Errorf("daily candles: %w", err)
	}
	weekly, err := loadCandleCSV(weeklyPath)
	if err != nil {
		return nil, fmt.Errorf("weekly candles: %w", err)
	}
	return &CSVCandleStore{
		series: map[domrepo.Timeframe]models.CandleSeries{
			domrepo.TFDaily:  daily,
			domrepo.TFWeekly: weekly,
		},
	}, nil
}

func (s *CSVCandleStore) GetCandles(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) (models.CandleSeries, error) {
	if err := ctx.Err(); err != nil {
		return models.CandleSeries{}, err
	}
	series, ok := s.series[tf]
	if !ok {
		return models.CandleSeries{}, fmt.Errorf("no candles loaded for timeframe %s", tf)
	}
	return series.Between(from, to), nil
}

func (s *CSVCandleStore) GetCandlesUpTo(ctx context.Context, symbol string, asOf time.Time, n int, tf domrepo.Timeframe) (models.CandleSeries, error) {
	if err := ctx.Err(); err != nil {
		return models.CandleSeries{}, err
	}
	series, ok := s.series[tf]
	if !ok {
		return models.CandleSeries{}, fmt.Errorf("no candles loaded for timeframe %s", tf)
	}
	upTo := series.UpTo(asOf)
	if n > 0 && upTo.Len() > n {
		return models.NewCandleSeries(upTo.Candles()[upTo.Len()-n:]), nil
	}
	return upTo, nil
}

func (s *CSVCandleStore) Health(ctx context.Context) error {
	for tf, series := range s.series {
		if series.IsEmpty() {
			return fmt.Errorf("empty candle series for timeframe %s", tf)
		}
	}
	return nil
}

func loadCandleCSV(path string) (models.CandleSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.CandleSeries{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 7

	// header
	if _, err := r.Read(); err != nil {
		return models.CandleSeries{}, fmt.Errorf("read header: %w", err)
	}

	var candles []models.Candle
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.CandleSeries{}, fmt.Errorf("row %d: %w", line, err)
		}
		line++

		bucket, ok := util.ParseTime(row[0])
		if !ok {
			return models.CandleSeries{}, fmt.Errorf("row %d: unparseable bucket %q", line, row[0])
		}
		c := models.Candle{Bucket: bucket, Symbol: row[1]}
		for i, dst := range []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume} {
			v, err := strconv.ParseFloat(row[i+2], 64)
			if err != nil {
				return models.CandleSeries{}, fmt.Errorf("row %d col %d: %w", line, i+2, err)
			}
			*dst = v
		}
		candles = append(candles, c)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Bucket.Before(candles[j].Bucket) })
	return models.NewCandleSeries(candles), nil
}

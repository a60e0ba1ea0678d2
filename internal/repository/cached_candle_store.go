package repository

import (
	"context"
	"errors"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	"SignalDesk/pkg/cache"
	applogger "SignalDesk/pkg/logger"
)

// CachedCandleStore decorates a CandleStore with a read-through cache.
// Candles are closed history and never change, so entries only expire to
// bound memory, not for correctness.
type CachedCandleStore struct {
	inner domrepo.CandleStore
	cache cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedCandleStore(inner domrepo.CandleStore, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedCandleStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedCandleStore{inner: inner, cache: c, ttl: ttl, l: l}
}

func (s *CachedCandleStore) GetCandles(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) (models.CandleSeries, error) {
	key := cache.HashKey(cache.GenerateKeyWithParams("candles:range", symbol, tf, from.Unix(), to.Unix()))

	var cached []models.Candle
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return models.NewCandleSeries(cached), nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.l.Warn("candle cache read failed", applogger.String("symbol", symbol), applogger.Error(err))
	}

	series, err := s.inner.GetCandles(ctx, symbol, from, to, tf)
	if err != nil {
		return models.CandleSeries{}, err
	}

	if err := s.cache.Set(ctx, key, series.Candles(), s.ttl); err != nil {
		s.l.Warn("candle cache write failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
	return series, nil
}

func (s *CachedCandleStore) GetCandlesUpTo(ctx context.Context, symbol string, asOf time.Time, n int, tf domrepo.Timeframe) (models.CandleSeries, error) {
	key := cache.HashKey(cache.GenerateKeyWithParams("candles:upto", symbol, tf, asOf.Unix(), n))

	var cached []models.Candle
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return models.NewCandleSeries(cached), nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.l.Warn("candle cache read failed", applogger.String("symbol", symbol), applogger.Error(err))
	}

	series, err := s.inner.GetCandlesUpTo(ctx, symbol, asOf, n, tf)
	if err != nil {
		return models.CandleSeries{}, err
	}

	if err := s.cache.Set(ctx, key, series.Candles(), s.ttl); err != nil {
		s.l.Warn("candle cache write failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
	return series, nil
}

func (s *CachedCandleStore) Health(ctx context.Context) error {
	return s.inner.Health(ctx)
}

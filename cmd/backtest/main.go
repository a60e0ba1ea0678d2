package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SignalDesk/internal/di"
	"SignalDesk/internal/domain/models"
	internalrepo "SignalDesk/internal/repository"
	"SignalDesk/internal/usecase"
	"SignalDesk/pkg/config"
	"SignalDesk/pkg/util"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "config file path")
	symbol := flag.String("symbol", "", "symbol to backtest (required)")
	fromStr := flag.String("from", "", "range start, RFC3339 or YYYY-MM-DD (required)")
	toStr := flag.String("to", "", "range end, RFC3339 or YYYY-MM-DD (required)")
	warmup := flag.Int("warmup", -1, "warmup steps override; -1 uses the strategy setting")
	dailyCSV := flag.String("daily-csv", "", "daily candles CSV; with -weekly-csv, runs without ClickHouse")
	weeklyCSV := flag.String("weekly-csv", "", "weekly candles CSV")
	jsonOut := flag.Bool("json", false, "print the full response as JSON")
	flag.Parse()

	if *symbol == "" || *fromStr == "" || *toStr == "" {
		flag.Usage()
		os.Exit(2)
	}
	from, ok := util.ParseTime(*fromStr)
	if !ok {
		log.Fatalf("unparseable -from: %q", *fromStr)
	}
	to, ok := util.ParseTime(*toStr)
	if !ok {
		log.Fatalf("unparseable -to: %q", *toStr)
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	uc, cleanup, err := buildUseCase(cfg, *dailyCSV, *weeklyCSV)
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	res, err := uc.Run(ctx, usecase.RunParams{
		Symbol: *symbol,
		From:   from,
		To:     to,
		Warmup: *warmup,
	})
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	if *jsonOut {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			log.Fatalf("encode response: %v", err)
		}
		fmt.Println(string(b))
		return
	}
	printSummary(res.Symbol, from, to, res.Summary)
}

// buildUseCase assembles the backtest pipeline. With both CSV paths set it
// runs fully offline; otherwise it goes through the regular DI graph and
// ClickHouse.
func buildUseCase(cfg *config.Config, dailyCSV, weeklyCSV string) (*usecase.BacktestUseCase, func(), error) {
	if dailyCSV != "" && weeklyCSV != "" {
		logger, err := di.ProvideLogger(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := internalrepo.NewCSVCandleStore(dailyCSV, weeklyCSV)
		if err != nil {
			return nil, nil, err
		}
		resolver := di.ProvideResolver(di.ProvideAnalyzers(cfg), cfg, logger)
		engine := di.ProvideEngine(logger)
		uc := di.ProvideBacktestUseCase(store, resolver, engine, nil, di.ProvideMetrics(), di.ProvideStrategy(cfg), cfg, logger)
		return uc, func() {}, nil
	}

	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	chClient, err := di.ProvideClickHouseClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	cacheSvc, err := di.ProvideCache(cfg)
	if err != nil {
		_ = chClient.Close()
		return nil, nil, err
	}
	store := di.ProvideCandleStore(chClient, cacheSvc, cfg, logger)
	signalLog := di.ProvideSignalLog(chClient, cfg)
	resolver := di.ProvideResolver(di.ProvideAnalyzers(cfg), cfg, logger)
	engine := di.ProvideEngine(logger)
	uc := di.ProvideBacktestUseCase(store, resolver, engine, signalLog, di.ProvideMetrics(), di.ProvideStrategy(cfg), cfg, logger)
	cleanup := func() {
		_ = cacheSvc.Close()
		_ = chClient.Close()
	}
	return uc, cleanup, nil
}

func printSummary(symbol string, from, to time.Time, s models.PerformanceSummary) {
	fmt.Printf("backtest %s  %s .. %s\n", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Printf("  signals:    %d emitted, %d resolved, %d unresolved, %d holds\n",
		s.TotalSignals, s.ResolvedSignals, s.UnresolvedSignals, s.HoldSteps)
	fmt.Printf("  accuracy:   %.2f%% overall, %.2f%% long (%d), %.2f%% short (%d)\n",
		s.Accuracy*100, s.LongAccuracy*100, s.LongCount, s.ShortAccuracy*100, s.ShortCount)
	fmt.Printf("  pnl:        mean %.2f%%, best %.2f%%, worst %.2f%%, net %.2f%%\n",
		s.MeanPnlPct, s.BestPnlPct, s.WorstPnlPct, s.NetPnlPct)
	fmt.Printf("  risk:       max drawdown %.2f%%, sharpe %.2f, profit factor %.2f, recovery %.2f\n",
		s.MaxDrawdownPct, s.SharpeRatio, s.ProfitFactor, s.RecoveryFactor)
}

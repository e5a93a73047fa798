package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"FuturesBacktest/internal/backtest"
	"FuturesBacktest/internal/config"
	"FuturesBacktest/internal/loader"
	"FuturesBacktest/internal/model"
	"FuturesBacktest/internal/risk"
	"FuturesBacktest/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath    string
		csvPath    string
		instrument string
		startStr   string
		endStr     string
		stratType  string
	)
	flag.StringVar(&cfgPath, "config", "configs/config.yaml", "path to YAML config")
	flag.StringVar(&csvPath, "csv", "", "CSV bar file (overrides config)")
	flag.StringVar(&instrument, "instrument", "", "instrument code (overrides config)")
	flag.StringVar(&startStr, "start", "", "start date YYYY-MM-DD (overrides config)")
	flag.StringVar(&endStr, "end", "", "end date YYYY-MM-DD (overrides config)")
	flag.StringVar(&stratType, "strategy", "", "strategy type (overrides config)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if csvPath != "" {
		cfg.Data.CSVPath = csvPath
	}
	if instrument != "" {
		cfg.Data.Instrument = instrument
	}
	if startStr != "" {
		cfg.Data.Start = startStr
	}
	if endStr != "" {
		cfg.Data.End = endStr
	}
	if stratType != "" {
		cfg.Strategy.Type = stratType
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	bars, err := loadBars(cfg)
	if err != nil {
		log.Fatalf("[FATAL] load bars: %v", err)
	}
	log.Printf("[INFO] loaded %d bars", len(bars))
	if len(bars) < 3 {
		log.Fatalf("[FATAL] need at least 3 bars, got %d", len(bars))
	}

	strat, err := strategy.New(cfg.Strategy)
	if err != nil {
		log.Fatalf("[FATAL] create strategy: %v", err)
	}
	log.Printf("[INFO] strategy: %s", strat.Name())

	var rm *risk.Manager
	if cfg.DisableRiskFilter {
		log.Println("[WARN] risk filter disabled, running raw signals")
	} else {
		rm = risk.NewManager(cfg.Risk)
	}

	engine, err := backtest.NewEngine(cfg.Backtest, rm)
	if err != nil {
		log.Fatalf("[FATAL] create engine: %v", err)
	}

	res, err := engine.Run(bars, strat.GenerateSignals(bars))
	if err != nil {
		log.Fatalf("[FATAL] run backtest: %v", err)
	}

	metrics, err := backtest.ComputeMetrics(res, backtest.DefaultRiskFreeRate)
	if err != nil {
		log.Fatalf("[FATAL] compute metrics: %v", err)
	}
	printReport(cfg.Data.Instrument, strat.Name(), res, metrics)
}

func loadBars(cfg *config.Config) ([]model.Bar, error) {
	var src loader.Source
	if cfg.Data.CSVPath != "" {
		src = loader.NewCSVSource(cfg.Data.CSVPath)
	} else {
		s, err := loader.NewSQLiteSource(cfg.Data.SQLitePath, cfg.Data.Table)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		src = s
	}
	log.Printf("[INFO] bar source: %s", src.Name())

	bars, err := src.Load(cfg.Data.Instrument)
	if err != nil {
		return nil, err
	}

	var from, to time.Time
	if cfg.Data.Start != "" {
		if from, err = time.Parse("2006-01-02", cfg.Data.Start); err != nil {
			return nil, fmt.Errorf("bad start date: %w", err)
		}
	}
	if cfg.Data.End != "" {
		if to, err = time.Parse("2006-01-02", cfg.Data.End); err != nil {
			return nil, fmt.Errorf("bad end date: %w", err)
		}
	}
	return loader.Slice(bars, from, to), nil
}

func printReport(instrument, stratName string, res *backtest.Result, m backtest.Metrics) {
	final := res.Trajectory[len(res.Trajectory)-1].PortfolioValue
	fmt.Println("==================================================")
	fmt.Printf("Backtest result  %s / %s\n", instrument, stratName)
	fmt.Println("==================================================")
	fmt.Printf("Bars simulated:    %d\n", len(res.Trajectory))
	fmt.Printf("Final value:       %.2f\n", final)
	fmt.Printf("Total return:      %.2f%%\n", m.TotalReturn*100)
	fmt.Printf("Annual return:     %.2f%%\n", m.AnnualReturn*100)
	fmt.Printf("Sharpe ratio:      %.4f\n", m.SharpeRatio)
	fmt.Printf("Max drawdown:      %.2f%%\n", m.MaxDrawdown*100)
	fmt.Printf("Annual volatility: %.2f%%\n", m.Volatility*100)
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wandererfin/wanderer/config"
	"github.com/wandererfin/wanderer/internal/adapters/alphavantage"
	"github.com/wandererfin/wanderer/internal/adapters/llm"
	"github.com/wandererfin/wanderer/internal/adapters/storage"
	"github.com/wandererfin/wanderer/internal/adapters/yahoo"
	"github.com/wandererfin/wanderer/internal/analyzer"
	"github.com/wandererfin/wanderer/internal/domain"
	"github.com/wandererfin/wanderer/internal/evaluator"
	"github.com/wandererfin/wanderer/internal/report"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	analyze := flag.Bool("analyze", false, "run one analysis pass and exit")
	evaluate := flag.Bool("evaluate", false, "grade pending recommendations and exit")
	showReport := flag.Bool("report", false, "print latest picks and aggregate stats")
	serve := flag.Bool("serve", false, "run the scheduler (analyze + evaluate on trading days)")
	date := flag.String("date", "", "analysis date YYYY-MM-DD (default: today)")
	maxStocks := flag.Int("max-stocks", 0, "cap on tickers analyzed (overrides config)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *maxStocks > 0 {
		cfg.Analysis.MaxStocks = *maxStocks
	}
	setupLogger(cfg.Log)

	day := time.Now().UTC()
	if *date != "" {
		day, err = time.Parse(domain.DateFormat, *date)
		if err != nil {
			slog.Error("invalid -date", "err", err, "date", *date)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	app := buildApp(cfg, store)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *analyze:
		if _, err := app.analyzer.Run(ctx, day); err != nil {
			slog.Error("analysis failed", "err", err)
			os.Exit(1)
		}
	case *evaluate:
		result, err := app.evaluator.Run(ctx)
		if err != nil {
			slog.Error("evaluation failed", "err", err)
			os.Exit(1)
		}
		slog.Info("evaluation finished",
			"updated", result.Updated, "failed", result.Failed, "skipped", result.Skipped)
	case *showReport:
		printReport(ctx, store)
	case *serve:
		if err := runSchedule(ctx, cfg, app); err != nil {
			slog.Error("scheduler exited with error", "err", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	slog.Info("wanderer stopped cleanly")
}

// app bundles the wired pipeline pieces shared by all run modes.
type app struct {
	analyzer  *analyzer.Analyzer
	evaluator *evaluator.Evaluator
}

func buildApp(cfg *config.Config, store *storage.SQLiteStorage) *app {
	quotes := yahoo.NewClient(cfg.API.YahooBase)
	av := alphavantage.NewClient(cfg.API.AlphaVantageBase, cfg.API.AlphaVantageKey)
	classifier := llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature)

	a := analyzer.New(analyzer.Config{
		MaxStocks:        cfg.Analysis.MaxStocks,
		ArticlesPerStock: cfg.Analysis.ArticlesPerStock,
		Workers:          cfg.Analysis.Workers,
	}, av, quotes, av, av, classifier, store)

	e := evaluator.New(evaluator.Config{
		BenchmarkSymbol: cfg.Evaluation.BenchmarkSymbol,
		MaxLookbackDays: cfg.Evaluation.MaxLookbackDays,
	}, store, quotes)

	return &app{analyzer: a, evaluator: e}
}

func printReport(ctx context.Context, store *storage.SQLiteStorage) {
	console := report.NewConsole()

	picks, err := store.LatestPicks(ctx)
	if err != nil {
		slog.Error("failed to load latest picks", "err", err)
		os.Exit(1)
	}
	console.PrintPicks(picks)

	stats, err := store.EvaluationStats(ctx)
	if err != nil {
		slog.Error("failed to load stats", "err", err)
		os.Exit(1)
	}
	console.PrintStats(stats)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wandererfin/wanderer/config"
	"github.com/wandererfin/wanderer/internal/marketcal"
)

// runSchedule runs analyze and evaluate on their cron schedules until the
// context is cancelled. Holidays and weekends are skipped even when the cron
// expression fires.
func runSchedule(ctx context.Context, cfg *config.Config, app *app) error {
	c := cron.New()

	_, err := c.AddFunc(cfg.Schedule.Analyze, func() {
		day := time.Now().UTC()
		if !marketcal.IsTradingDay(day) {
			slog.Info("market closed, skipping analysis", "date", day.Format("2006-01-02"))
			return
		}
		if _, err := app.analyzer.Run(ctx, day); err != nil {
			slog.Error("scheduled analysis failed", "err", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = c.AddFunc(cfg.Schedule.Evaluate, func() {
		day := time.Now().UTC()
		if !marketcal.IsTradingDay(day) {
			slog.Info("market closed, skipping evaluation", "date", day.Format("2006-01-02"))
			return
		}
		result, err := app.evaluator.Run(ctx)
		if err != nil {
			slog.Error("scheduled evaluation failed", "err", err)
			return
		}
		slog.Info("scheduled evaluation finished",
			"updated", result.Updated, "failed", result.Failed, "skipped", result.Skipped)
	})
	if err != nil {
		return err
	}

	slog.Info("scheduler running",
		"analyze", cfg.Schedule.Analyze,
		"evaluate", cfg.Schedule.Evaluate,
	)

	c.Start()
	<-ctx.Done()

	// Let an in-flight job finish before exiting.
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/grazulex/packagist-stats/internal/logger"
)

// cronLogger adapts the package logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// ValidateSchedule checks a standard cron expression or descriptor such as "@daily".
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Schedule runs the collector on spec (evaluated in UTC) until ctx is
// cancelled. Runs never overlap, and a failed run is logged without stopping
// the schedule.
func (c *Collector) Schedule(ctx context.Context, spec string) error {
	if err := ValidateSchedule(spec); err != nil {
		return err
	}

	cl := cronLogger{}
	scheduler := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := scheduler.AddFunc(spec, func() {
		if _, err := c.Run(ctx); err != nil {
			logger.Error("scheduled collection failed", "package", c.cfg.PackageName(), "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule collection: %w", err)
	}

	logger.Info("collector scheduled", "package", c.cfg.PackageName(), "schedule", spec)
	scheduler.Start()

	<-ctx.Done()
	<-scheduler.Stop().Done()

	logger.Info("collector stopped", "package", c.cfg.PackageName())
	return nil
}

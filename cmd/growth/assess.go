package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/elharel648/CalmParentApp-sub000/internal/assess"
	"github.com/elharel648/CalmParentApp-sub000/internal/cache"
	"github.com/elharel648/CalmParentApp-sub000/internal/output"
	"github.com/elharel648/CalmParentApp-sub000/internal/progress"
	"github.com/elharel648/CalmParentApp-sub000/internal/watch"
	"github.com/elharel648/CalmParentApp-sub000/pkg/config"
)

func assessCmd() *cli.Command {
	return &cli.Command{
		Name:      "assess",
		Usage:     "Assess a file of measurements (CSV, JSON, or YAML)",
		ArgsUsage: "<file>",
		Description: `Every record gets a percentile and status. Records are grouped by child and
metric to report percentile trends and crossings. Invalid records are listed
as rejected without stopping the run.

CSV files need a header row with sex, metric, value and either age_months or
birth_date. Optional columns: id, child_id, measured_on.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Do not read or write the report cache",
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Recompute and replace the cached report",
			},
			&cli.BoolFlag{
				Name:  "clear-cache",
				Usage: "Remove all cached reports before running",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Exit with an error when any record is rejected",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Re-assess whenever the file changes",
			},
		},
		Action: runAssessCmd,
	}
}

func runAssessCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one measurement file")
	}
	path := c.Args().First()
	cfg := appConfig(c)

	reportCache, err := openCache(c, cfg)
	if err != nil {
		return err
	}

	if !c.Bool("watch") {
		return assessFile(c, path, reportCache)
	}

	if err := assessFile(c, path, reportCache); err != nil {
		color.Red("Error: %v", err)
	}

	debounce := time.Duration(cfg.Watch.Debounce) * time.Millisecond
	watcher, err := watch.NewWatcher(path, debounce, appLogger(c))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	appLogger(c).Debug("Watching batch file", zap.String("path", watcher.Path()))
	watcher.SetOutput(c.App.ErrWriter)
	watcher.SetCallback(func(changed string) {
		if err := assessFile(c, changed, reportCache); err != nil {
			color.Red("Error: %v", err)
		}
	})

	err = watcher.Start(c.Context)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(c.App.ErrWriter, "\nStopping watch...")
		return nil
	}
	return err
}

func openCache(c *cli.Context, cfg *config.Config) (*cache.Cache, error) {
	if c.Bool("clear-cache") {
		store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		if err := store.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	enabled := cfg.Cache.Enabled && !c.Bool("no-cache")
	reportCache, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return reportCache, nil
}

// reportFingerprint lists every setting that changes the rendered report.
func reportFingerprint(c *cli.Context, cfg *config.Config, colored bool) string {
	return fmt.Sprintf("format=%s locale=%s threshold=%g min_points=%d precision=%d color=%t",
		resolveFormat(c), resolveLocale(c), cfg.Assess.CrossingThreshold,
		cfg.Assess.MinTrendPoints, cfg.Output.Precision, colored)
}

// clockDependent reports whether any record takes its age from today's date,
// which makes the rendered report change without the file changing.
func clockDependent(ms []assess.Measurement) bool {
	for _, m := range ms {
		if m.UsesClock() {
			return true
		}
	}
	return false
}

func assessFile(c *cli.Context, path string, reportCache *cache.Cache) error {
	cfg := appConfig(c)
	logger := appLogger(c)

	data, kind, err := assess.ReadFile(path)
	if err != nil {
		return err
	}
	ms, err := assess.Parse(data, kind)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	cacheable := reportCache.Enabled() && !clockDependent(ms)
	if reportCache.Enabled() && !cacheable {
		logger.Debug("Report cache skipped: ages depend on the current date", zap.String("path", path))
	}

	key := cache.ReportKey(data, reportFingerprint(c, cfg, formatter.Colored()))
	if cacheable {
		if c.Bool("refresh") {
			if err := reportCache.Invalidate(key); err != nil {
				logger.Warn("Cache invalidation failed", zap.Error(err))
			}
		} else if cached, ok := reportCache.Get(key); ok {
			logger.Debug("Report served from cache", zap.String("path", path))
			_, err := formatter.Writer().Write(cached)
			return err
		}
	}

	svc := assess.New(assess.WithConfig(cfg), assess.WithLogger(logger))
	tracker := progress.NewTracker(c.App.ErrWriter, "Assessing measurements...", len(ms))
	report, rejected := svc.Assess(c.Context, ms, assess.Options{
		Locale:     resolveLocale(c),
		OnProgress: tracker.Tick,
	})
	if report == nil {
		tracker.FinishError(rejected)
		return fmt.Errorf("assessment failed: %w", rejected)
	}
	tracker.FinishSuccess()

	var buf bytes.Buffer
	rendered := output.NewWriterFormatter(formatter.Format(), &buf, formatter.Colored())
	if err := rendered.Output(report); err != nil {
		return err
	}
	if _, err := formatter.Writer().Write(buf.Bytes()); err != nil {
		return err
	}

	if rejected != nil {
		// Reports with rejected records stay uncached so the warning repeats.
		notices := output.NewWriterFormatter(output.FormatText, c.App.ErrWriter, formatter.Colored())
		notices.Warning("%d of %d measurements rejected", report.Summary.Rejected, report.Summary.Total)
		if c.Bool("strict") {
			return rejected
		}
		return nil
	}

	if cacheable {
		if err := reportCache.Set(key, buf.Bytes()); err != nil {
			logger.Warn("Cache write failed", zap.Error(err))
		}
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

type config struct {
	duration     time.Duration
	workers      int
	elements     int
	removeRatio  float64
	compactEvery int
	verifyEvery  int
	seed         uint64
}

func main() {
	var cfg config
	flag.DurationVar(&cfg.duration, "duration", 10*time.Second, "The total duration the test should run for.")
	flag.IntVar(&cfg.workers, "workers", runtime.GOMAXPROCS(0), "Number of independent vectors to exercise in parallel.")
	flag.IntVar(&cfg.elements, "elements", 10000, "The initial number of elements per vector.")
	flag.Float64Var(&cfg.removeRatio, "remove-ratio", 0.4, "Fraction of operations that are removals.")
	flag.IntVar(&cfg.compactEvery, "compact-every", 5000, "Compact after this many operations (0 disables).")
	flag.IntVar(&cfg.verifyEvery, "verify-every", 1000, "Check the vector against the model after this many operations (0 disables).")
	flag.Uint64Var(&cfg.seed, "seed", uint64(time.Now().UnixNano()), "Random seed.")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error).")
	jsonLogs := flag.Bool("json", false, "Emit JSON logs.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, err := newLogger(*logLevel, *jsonLogs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.workers < 1 || cfg.removeRatio < 0 || cfg.removeRatio >= 1 {
		logger.Error("invalid flags", "workers", cfg.workers, "remove_ratio", cfg.removeRatio)
		os.Exit(2)
	}

	logger.Info("starting stress test",
		"workers", cfg.workers,
		"elements", cfg.elements,
		"seed", cfg.seed,
	)

	// 1. Populate one vector per worker
	workers := make([]*worker, cfg.workers)
	for i := range workers {
		workers[i] = newWorker(i, cfg.seed, cfg, logger)
		workers[i].populate(cfg.elements)
	}
	logger.Info("population complete")

	report := &Report{
		Duration:       cfg.duration,
		Workers:        cfg.workers,
		Elements:       cfg.elements,
		RemoveRatio:    cfg.removeRatio,
		CompactEvery:   cfg.compactEvery,
		Seed:           cfg.seed,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	// 2. Run the workload
	logger.Info("running workload", "duration", cfg.duration)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.duration)
	defer cancel()

	startTime := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		g.Go(func() error {
			return w.run(ctx)
		})
	}
	runErr := g.Wait()

	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)

	for _, w := range workers {
		report.Counters.add(w.counters)
		report.CompactTime.Samples = append(report.CompactTime.Samples, w.samples...)
		report.FinalLen += w.vec.Len()
		report.FinalCapacityUsed += w.vec.CapacityUsed()
	}
	report.CompactTime.Finalize()

	if runErr != nil {
		logger.Error("invariant violated", "err", runErr)
		os.Exit(1)
	}
	logger.Info("workload finished", "ops", report.Counters.Total())

	// 3. Print the report
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Error("failed to generate report", "err", err)
		os.Exit(1)
	}
	fmt.Println("--- End of Report ---")
}

func newLogger(level string, json bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler), nil
}

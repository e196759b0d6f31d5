// distinct-count compares exact and approximate distinct counting over a
// JSON lines access log.
//
// It reads the log twice. The first pass keeps every distinct value of the
// chosen field in a map; the second pass feeds the same values into a
// HyperLogLog estimator. Both passes are timed, and the results are printed
// side by side.
//
// Usage Examples
// ==============
//
// Count unique client addresses with the defaults (p=14, murmur3):
//
//	distinct-count -file lms-stage-access.log
//
// Count unique users with a larger estimator and xxHash:
//
//	distinct-count -file access.log -field user -precision 16 -hash xxhash
//
// Malformed lines are skipped. Run with -v to log every skipped record.
//
// Exit Codes
// ==========
//
// 0: Both counts completed.
// 1: Invalid flags, or the log could not be read.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"distinct.lopezb.com/internal/hyperloglog"
	"distinct.lopezb.com/internal/ingest"
)

type config struct {
	file      string
	field     string
	precision int
	hash      string
	verbose   bool
}

type application struct {
	config config
	logger *slog.Logger
	out    io.Writer
}

// result is the outcome of one counting pass.
type result struct {
	count   float64
	elapsed time.Duration
}

func main() {
	var cfg config

	flag.StringVar(&cfg.file, "file", "lms-stage-access.log", "Path to the JSON lines access log")
	flag.StringVar(&cfg.field, "field", ingest.DefaultField, "JSON field holding the item to count")
	flag.IntVar(&cfg.precision, "precision", hyperloglog.DefaultPrecision, "HyperLogLog precision p (m = 2^p registers)")
	flag.StringVar(&cfg.hash, "hash", "murmur3", "Hash function: murmur3 or xxhash")
	flag.BoolVar(&cfg.verbose, "v", false, "Verbose mode (log skipped records)")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	app := &application{
		config: cfg,
		logger: logger,
		out:    os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.run(ctx); err != nil {
		logger.Error("distinct count failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run performs both passes and prints the comparison.
func (app *application) run(ctx context.Context) error {
	// Validate the estimator configuration before spending time on the
	// exact pass.
	if _, err := app.newEstimator(); err != nil {
		return err
	}

	exact, err := app.exactCount(ctx)
	if err != nil {
		return err
	}

	approx, err := app.approxCount(ctx)
	if err != nil {
		return err
	}

	app.logger.Info("counts completed",
		"exact", exact.count,
		"estimate", approx.count,
		"relative_error", relativeError(exact.count, approx.count))

	return printReport(app.out, exact, approx)
}

func (app *application) newEstimator() (*hyperloglog.Estimator, error) {
	hash, ok := hyperloglog.HashByName(app.config.hash)
	if !ok {
		return nil, fmt.Errorf("unknown hash function %q", app.config.hash)
	}
	return hyperloglog.NewWithHash(app.config.precision, hash)
}

// exactCount counts distinct items with a set.
func (app *application) exactCount(ctx context.Context) (result, error) {
	counter := ingest.NewExactCounter()

	start := time.Now()
	if err := app.scan(ctx, counter); err != nil {
		return result{}, err
	}

	return result{count: float64(counter.Len()), elapsed: time.Since(start)}, nil
}

// approxCount estimates distinct items with a HyperLogLog estimator. The
// timing covers both the ingestion and the final Count.
func (app *application) approxCount(ctx context.Context) (result, error) {
	estimator, err := app.newEstimator()
	if err != nil {
		return result{}, err
	}

	start := time.Now()
	if err := app.scan(ctx, estimator); err != nil {
		return result{}, err
	}

	estimate, err := estimator.Count()
	if err != nil {
		return result{}, err
	}

	return result{count: estimate, elapsed: time.Since(start)}, nil
}

// scan streams the configured log file into sink.
func (app *application) scan(ctx context.Context, sink ingest.Sink) error {
	f, err := os.Open(app.config.file)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	reader := ingest.NewReader(f, ingest.Config{Field: app.config.field}, app.logger)
	if err := ingest.Feed(ctx, reader, sink); err != nil {
		return fmt.Errorf("reading %s: %w", app.config.file, err)
	}

	stats := reader.Stats()
	if skipped := stats.Skipped.Load(); skipped > 0 {
		app.logger.Warn("skipped unusable records", append([]any{"file", app.config.file}, stats.LogAttrs()...)...)
	} else {
		app.logger.Debug("scan completed", stats.LogAttrs()...)
	}

	return nil
}

func relativeError(exact, estimate float64) float64 {
	if exact == 0 {
		return 0
	}
	diff := estimate - exact
	if diff < 0 {
		diff = -diff
	}
	return diff / exact
}

// bloom-check checks candidate passwords against a Bloom filter of passwords
// that are already in use.
//
// The filter is built from the -existing list, then every -check candidate is
// reported as unique, already used, or invalid (empty). Because a Bloom
// filter can return false positives, "already used" means "probably used";
// "unique" is always correct.
//
// Usage Examples
// ==============
//
//	bloom-check
//	bloom-check -existing "hunter2,letmein" -check "hunter2,correcthorse"
//	bloom-check -capacity 100000 -error-rate 0.001 -existing-file used.txt -check "s3cret"
//
// When -capacity is set, -size and -hashes are derived from it and
// -error-rate instead of being taken literally.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"distinct.lopezb.com/internal/bloom"
)

type config struct {
	size         uint
	hashes       uint
	capacity     uint64
	errorRate    float64
	existing     string
	existingFile string
	check        string
}

type application struct {
	config config
	logger *slog.Logger
	out    io.Writer
}

func main() {
	var cfg config

	flag.UintVar(&cfg.size, "size", bloom.DefaultSize, "Number of bits in the filter")
	flag.UintVar(&cfg.hashes, "hashes", bloom.DefaultHashes, "Number of hash rounds per item")
	flag.Uint64Var(&cfg.capacity, "capacity", 0, "Expected number of existing passwords (0 to use -size and -hashes)")
	flag.Float64Var(&cfg.errorRate, "error-rate", 0.01, "Target false positive rate when -capacity is set")
	flag.StringVar(&cfg.existing, "existing", "password123,admin123,qwerty123", "Comma separated passwords already in use")
	flag.StringVar(&cfg.existingFile, "existing-file", "", "File with one password in use per line")
	flag.StringVar(&cfg.check, "check", "password123,newpassword,admin123,guest", "Comma separated passwords to check")
	flag.Parse()

	app := &application{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
		out:    os.Stdout,
	}

	if err := app.run(); err != nil {
		app.logger.Error("bloom check failed", "error", err)
		os.Exit(1)
	}
}

func (app *application) run() error {
	filterCfg := bloom.Config{Size: app.config.size, Hashes: app.config.hashes}
	if app.config.capacity > 0 {
		filterCfg = bloom.ConfigFor(app.config.capacity, app.config.errorRate)
	}

	filter, err := bloom.New(filterCfg)
	if err != nil {
		return err
	}

	added := 0
	for _, pw := range splitList(app.config.existing) {
		filter.Add(pw)
		added++
	}

	if app.config.existingFile != "" {
		n, err := addFromFile(filter, app.config.existingFile)
		if err != nil {
			return err
		}
		added += n
	}

	app.logger.Info("filter ready",
		"size", filter.Size(),
		"hashes", filter.Hashes(),
		"passwords", added,
		"fill_ratio", filter.FillRatio())

	for _, r := range bloom.CheckUniqueness(filter, splitList(app.config.check)) {
		if _, err := fmt.Fprintf(app.out, "Password '%s' - %s.\n", r.Item, r.Status); err != nil {
			return err
		}
	}
	return nil
}

// addFromFile adds every non-empty line of path to f and returns how many
// were added.
func addFromFile(f *bloom.Filter, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	n := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		f.Add(line)
		n++
	}
	return n, scanner.Err()
}

// splitList splits a comma separated flag value. Entries are trimmed but
// empty entries are kept, so that they are reported as invalid.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

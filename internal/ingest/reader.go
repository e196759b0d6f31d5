// Package ingest reads item streams out of newline-delimited JSON access logs.
//
// Every line of the log is expected to be one JSON object. The Reader pulls a
// single string field from every record (the client address, "remote_addr",
// by default) and hands it to a callback. Records that cannot be used are
// skipped and counted, never fatal:
//
//   - blank lines
//   - lines that are not valid JSON
//   - records without the field, or where the field is not a non-empty string
//
// Only I/O errors, lines longer than Config.MaxLineSize, context cancellation
// and errors returned by the callback stop the read.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/valyala/fastjson"
)

const (
	DefaultField       = "remote_addr"
	DefaultMaxLineSize = 1 << 20 // 1MB

	// ctxCheckInterval is how many lines are read between context checks.
	ctxCheckInterval = 1024
)

// Config holds the parameters of a Reader.
type Config struct {
	// Field is the top-level JSON key whose value is the item.
	Field string

	// MaxLineSize is the longest accepted line in bytes.
	MaxLineSize int
}

// DefaultConfig returns the configuration for reading client addresses from
// an access log.
func DefaultConfig() Config {
	return Config{
		Field:       DefaultField,
		MaxLineSize: DefaultMaxLineSize,
	}
}

// Reader extracts items from a JSON lines stream. A Reader is not safe for
// concurrent use; its Stats are.
type Reader struct {
	scanner *bufio.Scanner
	parser  fastjson.Parser
	field   string
	stats   *Stats
	logger  *slog.Logger
}

// NewReader creates a Reader over r. Zero values in cfg are replaced by the
// defaults. A nil logger discards skip reports.
func NewReader(r io.Reader, cfg Config, logger *slog.Logger) *Reader {
	if cfg.Field == "" {
		cfg.Field = DefaultField
	}
	if cfg.MaxLineSize <= 0 {
		cfg.MaxLineSize = DefaultMaxLineSize
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, cfg.MaxLineSize)), cfg.MaxLineSize)

	return &Reader{
		scanner: scanner,
		field:   cfg.Field,
		stats:   NewStats(),
		logger:  logger,
	}
}

// Stats returns the counters of this reader.
func (r *Reader) Stats() *Stats {
	return r.stats
}

// Each calls fn for every usable item in the stream, in order. It stops at
// the end of the stream, on the first error returned by fn, on a read error,
// or when ctx is cancelled.
func (r *Reader) Each(ctx context.Context, fn func(item string) error) error {
	for r.scanner.Scan() {
		lines := r.stats.Lines.Add(1)

		if lines%ctxCheckInterval == 1 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			r.stats.Blank.Add(1)
			continue
		}

		item, ok := r.extract(line, lines)
		if !ok {
			r.stats.Skipped.Add(1)
			continue
		}

		r.stats.Items.Add(1)
		if err := fn(item); err != nil {
			return err
		}
	}

	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("ingest: line %d: %w", r.stats.Lines.Load()+1, err)
	}

	return nil
}

// extract returns the configured field of a JSON record. The parser reuses
// its memory between lines, so the item is copied into a new string.
func (r *Reader) extract(line []byte, lineNo uint64) (string, bool) {
	v, err := r.parser.ParseBytes(line)
	if err != nil {
		r.logger.Debug("skipping malformed record", "line", lineNo, "error", err)
		return "", false
	}

	fv := v.Get(r.field)
	if fv == nil {
		r.logger.Debug("skipping record without field", "line", lineNo, "field", r.field)
		return "", false
	}

	if fv.Type() != fastjson.TypeString {
		r.logger.Debug("skipping record with non-string field", "line", lineNo, "field", r.field, "type", fv.Type().String())
		return "", false
	}

	item := fv.GetStringBytes()
	if len(item) == 0 {
		r.logger.Debug("skipping record with empty field", "line", lineNo, "field", r.field)
		return "", false
	}

	return string(item), true
}

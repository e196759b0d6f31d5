package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"distinct.lopezb.com/internal/hyperloglog"
)

func newTestApp(t *testing.T, cfg config) (*application, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	return &application{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:    out,
	}, out
}

func writeLog(t *testing.T, lines []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "access.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	var lines []string
	for i := 0; i < 500; i++ {
		lines = append(lines, fmt.Sprintf(`{"remote_addr": "192.168.%d.%d", "status": 200}`, i/256, i%256))
		lines = append(lines, fmt.Sprintf(`{"remote_addr": "192.168.%d.%d", "status": 304}`, i/256, i%256))
	}
	lines = append(lines, `garbage`, `{"remote_addr": 7}`)

	for _, hash := range []string{"murmur3", "xxhash"} {
		t.Run(hash, func(t *testing.T) {
			app, out := newTestApp(t, config{
				file:      writeLog(t, lines),
				field:     "remote_addr",
				precision: 14,
				hash:      hash,
			})

			if err := app.run(context.Background()); err != nil {
				t.Fatalf("run returned error: %v", err)
			}

			report := out.String()
			if !strings.Contains(report, "Comparison results:") {
				t.Errorf("missing header in report:\n%s", report)
			}
			if !strings.Contains(report, "500.0") {
				t.Errorf("expected exact count 500.0 in report:\n%s", report)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	path := writeLog(t, []string{`{"remote_addr": "10.0.0.1"}`})

	t.Run("invalid precision", func(t *testing.T) {
		app, _ := newTestApp(t, config{file: path, precision: 0, hash: "murmur3"})
		err := app.run(context.Background())
		if !errors.Is(err, hyperloglog.ErrInvalidPrecision) {
			t.Errorf("expected ErrInvalidPrecision, got %v", err)
		}
	})

	t.Run("unknown hash", func(t *testing.T) {
		app, _ := newTestApp(t, config{file: path, precision: 14, hash: "md5"})
		if err := app.run(context.Background()); err == nil {
			t.Error("expected an error for an unknown hash")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		app, _ := newTestApp(t, config{file: filepath.Join(t.TempDir(), "nope.log"), precision: 14})
		err := app.run(context.Background())
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	err := printReport(&buf,
		result{count: 1234567, elapsed: 1500 * time.Millisecond},
		result{count: 1230000.2, elapsed: 250 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	for _, want := range []string{"1,234,567.0", "1,230,000.2", "1.500", "0.250"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("report should contain %q:\n%s", want, buf.String())
		}
	}

	if !strings.HasPrefix(lines[2], "Unique items") || !strings.HasPrefix(lines[3], "Elapsed (s)") {
		t.Errorf("unexpected row order:\n%s", buf.String())
	}
}

func TestRelativeError(t *testing.T) {
	if got := relativeError(0, 5); got != 0 {
		t.Errorf("relativeError(0, 5) = %f, want 0", got)
	}
	if got := relativeError(100, 90); got != 0.1 {
		t.Errorf("relativeError(100, 90) = %f, want 0.1", got)
	}
	if got := relativeError(100, 110); got != 0.1 {
		t.Errorf("relativeError(100, 110) = %f, want 0.1", got)
	}
}

package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

const sampleLog = `{"remote_addr": "10.0.0.1", "status": 200}
{"remote_addr": "10.0.0.2", "status": 404}

{"remote_addr": "10.0.0.1", "status": 200}
not json at all
{"status": 500}
{"remote_addr": 12345}
{"remote_addr": null}
{"remote_addr": ""}
   {"remote_addr": "10.0.0.3"}   
["10.0.0.4"]
{"remote_addr": "10.0.0.2", "request": "GET / HTTP/1.1"}
`

func collect(t *testing.T, r *Reader) []string {
	t.Helper()

	var items []string
	err := r.Each(context.Background(), func(item string) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		t.Fatalf("Each returned error: %v", err)
	}
	return items
}

func TestReader_Each(t *testing.T) {
	r := NewReader(strings.NewReader(sampleLog), DefaultConfig(), nil)
	items := collect(t, r)

	want := []string{"10.0.0.1", "10.0.0.2", "10.0.0.1", "10.0.0.3", "10.0.0.2"}
	if strings.Join(items, ",") != strings.Join(want, ",") {
		t.Errorf("items = %v, want %v", items, want)
	}

	stats := r.Stats()
	if got := stats.Lines.Load(); got != 12 {
		t.Errorf("Lines = %d, want 12", got)
	}
	if got := stats.Blank.Load(); got != 1 {
		t.Errorf("Blank = %d, want 1", got)
	}
	if got := stats.Skipped.Load(); got != 6 {
		t.Errorf("Skipped = %d, want 6", got)
	}
	if got := stats.Items.Load(); got != 5 {
		t.Errorf("Items = %d, want 5", got)
	}
}

func TestReader_CustomField(t *testing.T) {
	log := `{"user": "alice", "remote_addr": "10.0.0.1"}
{"user": "bob"}
{"user": "alice"}
`
	r := NewReader(strings.NewReader(log), Config{Field: "user"}, nil)
	items := collect(t, r)

	if strings.Join(items, ",") != "alice,bob,alice" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestReader_ItemsAreCopied(t *testing.T) {
	// The parser reuses its buffers; items kept by the callback must not
	// change when the next line is parsed.
	log := `{"remote_addr": "first"}
{"remote_addr": "second"}
`
	r := NewReader(strings.NewReader(log), DefaultConfig(), nil)
	items := collect(t, r)

	if len(items) != 2 || items[0] != "first" || items[1] != "second" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestReader_CallbackError(t *testing.T) {
	errStop := errors.New("stop")

	r := NewReader(strings.NewReader(sampleLog), DefaultConfig(), nil)

	calls := 0
	err := r.Each(context.Background(), func(string) error {
		calls++
		if calls == 2 {
			return errStop
		}
		return nil
	})

	if !errors.Is(err, errStop) {
		t.Errorf("expected errStop, got %v", err)
	}
	if calls != 2 {
		t.Errorf("callback called %d times, want 2", calls)
	}
}

func TestReader_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReader(strings.NewReader(sampleLog), DefaultConfig(), nil)
	err := r.Each(ctx, func(string) error {
		t.Error("callback must not run after cancellation")
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReader_LineTooLong(t *testing.T) {
	long := fmt.Sprintf(`{"remote_addr": "%s"}`, strings.Repeat("x", 200))
	r := NewReader(strings.NewReader(long+"\n"), Config{MaxLineSize: 64}, nil)

	err := r.Each(context.Background(), func(string) error { return nil })
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Errorf("expected bufio.ErrTooLong, got %v", err)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""), DefaultConfig(), nil)
	if items := collect(t, r); len(items) != 0 {
		t.Errorf("expected no items, got %v", items)
	}
	if r.Stats().Lines.Load() != 0 {
		t.Error("expected no lines")
	}
}

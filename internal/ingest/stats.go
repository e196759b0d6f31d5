package ingest

import "sync/atomic"

// Stats holds the atomic counters of a Reader. They can be read while the
// Reader is running.
type Stats struct {
	Lines   atomic.Uint64 // Lines read, including blank and skipped ones
	Blank   atomic.Uint64 // Empty or whitespace-only lines
	Skipped atomic.Uint64 // Records that did not yield an item
	Items   atomic.Uint64 // Items handed to the callback
}

// NewStats creates and returns a new Stats struct.
func NewStats() *Stats {
	return &Stats{}
}

// LogAttrs returns the counters as slog key/value pairs.
func (s *Stats) LogAttrs() []any {
	return []any{
		"lines", s.Lines.Load(),
		"blank", s.Blank.Load(),
		"skipped", s.Skipped.Load(),
		"items", s.Items.Load(),
	}
}

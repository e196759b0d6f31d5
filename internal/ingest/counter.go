package ingest

import "context"

// Sink receives items. Both *hyperloglog.Estimator and *ExactCounter
// satisfy it.
type Sink interface {
	Add(item string) bool
}

// Feed reads every item from r into sink.
func Feed(ctx context.Context, r *Reader, sink Sink) error {
	return r.Each(ctx, func(item string) error {
		sink.Add(item)
		return nil
	})
}

// ExactCounter counts distinct items exactly by keeping all of them in
// memory. It is the baseline the estimator is compared against.
type ExactCounter struct {
	seen map[string]struct{}
}

// NewExactCounter creates an empty ExactCounter.
func NewExactCounter() *ExactCounter {
	return &ExactCounter{seen: make(map[string]struct{})}
}

// Add records item and reports whether it had not been seen before.
func (c *ExactCounter) Add(item string) bool {
	if _, ok := c.seen[item]; ok {
		return false
	}
	c.seen[item] = struct{}{}
	return true
}

// Len returns the number of distinct items recorded.
func (c *ExactCounter) Len() int {
	return len(c.seen)
}

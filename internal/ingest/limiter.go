package ingest

import (
	"context"
	"errors"
	"time"
)

// ErrTooManyUploads is returned when every upload slot stays busy for the
// limiter's wait time.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

// Limiter defaults.
const (
	DefaultMaxConcurrent = 5
	DefaultMaxWait       = 30 * time.Second
)

// Limiter bounds the number of uploads parsed at once. Parsing holds a whole
// file's rows in memory, so unbounded parallelism is a memory problem.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
}

// NewLimiter allows maxConcurrent parses at a time. Callers wait up to
// maxWait for a slot.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Limiter{slots: make(chan struct{}, maxConcurrent), maxWait: maxWait}
}

// Acquire takes a slot. The caller must Release it.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyUploads
	}
}

// Release returns a slot taken by Acquire.
func (l *Limiter) Release() { <-l.slots }

// Active returns the number of slots in use.
func (l *Limiter) Active() int { return len(l.slots) }

// WaitForDrain blocks until no uploads are in flight or ctx is done.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

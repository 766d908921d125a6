package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mvillar/lazylist-cli/internal/list"
)

// SlowExecutor wraps an executor with a random delay in [Min, Max] before
// each fetch, standing in for a genuinely slow backing store. The delay
// respects context cancellation.
type SlowExecutor struct {
	inner list.Executor[Record]
	min   time.Duration
	max   time.Duration
}

func NewSlowExecutor(inner list.Executor[Record], min, max time.Duration) (*SlowExecutor, error) {
	if inner == nil {
		return nil, fmt.Errorf("slow executor requires an inner executor")
	}
	if min < 0 || max < min {
		return nil, fmt.Errorf("invalid delay bounds: min=%s max=%s", min, max)
	}
	return &SlowExecutor{inner: inner, min: min, max: max}, nil
}

func (s *SlowExecutor) FetchItem(ctx context.Context, index int) (Record, error) {
	delay := s.min
	if span := s.max - s.min; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span) + 1))
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Record{}, ctx.Err()
		}
	}

	return s.inner.FetchItem(ctx, index)
}

package upstream

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	adaptiveFactor      = 1.2
	adaptiveMaxExponent = 2
)

// AdaptiveDelay paces requests to a throttling upstream: the spacing between
// requests grows with the number of recent failures, capped at two steps.
type AdaptiveDelay struct {
	name string
	base time.Duration

	mu             sync.Mutex
	recentFailures int
	lastFetchAt    time.Time
}

func NewAdaptiveDelay(name string, base time.Duration) *AdaptiveDelay {
	return &AdaptiveDelay{
		name: name,
		base: base,
	}
}

// NextDelay = base * 1.2^min(recentFailures, 2).
func (d *AdaptiveDelay) NextDelay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.nextDelayLocked()
}

func (d *AdaptiveDelay) nextDelayLocked() time.Duration {
	exp := min(d.recentFailures, adaptiveMaxExponent)
	return time.Duration(math.Round(float64(d.base) * math.Pow(adaptiveFactor, float64(exp))))
}

func (d *AdaptiveDelay) RecordSuccess() {
	d.mu.Lock()
	d.recentFailures = 0
	d.mu.Unlock()

	adaptiveFailures.WithLabelValues(d.name).Set(0)
}

func (d *AdaptiveDelay) RecordFailure() {
	d.mu.Lock()
	d.recentFailures++
	n := d.recentFailures
	d.mu.Unlock()

	adaptiveFailures.WithLabelValues(d.name).Set(float64(n))
}

func (d *AdaptiveDelay) RecentFailures() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.recentFailures
}

// Wait blocks until lastFetchAt + NextDelay() and stamps lastFetchAt. The slot
// is claimed under the lock, so concurrent waiters are spaced as well.
func (d *AdaptiveDelay) Wait(ctx context.Context) error {
	d.mu.Lock()
	now := time.Now()
	slot := now
	if !d.lastFetchAt.IsZero() {
		if next := d.lastFetchAt.Add(d.nextDelayLocked()); next.After(now) {
			slot = next
		}
	}
	d.lastFetchAt = slot
	d.mu.Unlock()

	if err := sleep(ctx, time.Until(slot)); err != nil {
		return fmt.Errorf("upstream.AdaptiveDelay.Wait: %w", err)
	}

	return nil
}

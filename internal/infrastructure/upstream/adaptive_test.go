package upstream_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/infrastructure/upstream"
)

func TestAdaptiveDelay_NextDelay(t *testing.T) {
	rq := require.New(t)

	d := upstream.NewAdaptiveDelay("test", 1000*time.Millisecond)
	rq.Equal(1000*time.Millisecond, d.NextDelay())

	prev := d.NextDelay()
	delays := map[int]time.Duration{}

	for failures := 1; failures <= 5; failures++ {
		d.RecordFailure()
		next := d.NextDelay()
		rq.GreaterOrEqual(next, prev)
		delays[failures] = next
		prev = next
	}

	rq.Equal(1200*time.Millisecond, delays[1])
	rq.Equal(1440*time.Millisecond, delays[2])
	rq.Equal(delays[2], delays[5])
	rq.Equal(5, d.RecentFailures())

	d.RecordSuccess()
	rq.Equal(0, d.RecentFailures())
	rq.Equal(1000*time.Millisecond, d.NextDelay())
}

func TestAdaptiveDelay_Wait(t *testing.T) {
	rq := require.New(t)

	d := upstream.NewAdaptiveDelay("test", 30*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	rq.NoError(d.Wait(ctx))
	rq.Less(time.Since(start), 20*time.Millisecond)

	rq.NoError(d.Wait(ctx))
	rq.GreaterOrEqual(time.Since(start), 25*time.Millisecond)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	rq.ErrorIs(d.Wait(canceled), context.Canceled)
}

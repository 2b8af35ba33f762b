package contextx_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"coffer_scanner/pkg/contextx"
)

func TestTraceID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	traceID, err := contextx.TraceIDFromContext(ctx)
	rq.Empty(traceID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "trace id: no value in context")

	ctx = contextx.WithTraceID(ctx, "req-42")

	traceID, err = contextx.TraceIDFromContext(ctx)
	rq.NoError(err)
	rq.Equal(contextx.TraceID("req-42"), traceID)
}

func TestParseTraceID(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{name: "empty", raw: "", ok: false},
		{name: "short", raw: "d1k2f3", ok: true},
		{name: "limit", raw: strings.Repeat("a", 64), ok: true},
		{name: "too long", raw: strings.Repeat("a", 65), ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			traceID, ok := contextx.ParseTraceID(tc.raw)
			rq.Equal(tc.ok, ok)

			if tc.ok {
				rq.Equal(tc.raw, traceID.String())
			}
		})
	}

	require.Len(t, contextx.NewTraceID().String(), 20)
}

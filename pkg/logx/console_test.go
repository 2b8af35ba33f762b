package logx_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"coffer_scanner/pkg/logx"
)

func TestNewConsoleLogger(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{level: "debug", wantDebug: true, wantWarn: true},
		{level: "warn", wantDebug: false, wantWarn: true},
		{level: "garbage", wantDebug: false, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			rq := require.New(t)

			log := logx.NewConsoleLogger(&bytes.Buffer{}, tt.level)

			rq.Equal(tt.wantDebug, log.Enabled(context.Background(), slog.LevelDebug))
			rq.Equal(tt.wantWarn, log.Enabled(context.Background(), slog.LevelWarn))
		})
	}
}

package contextx

import (
	"context"
	"fmt"

	"github.com/rs/xid"
)

// TraceID связывает HTTP-запрос, задачу в очереди и запуск обновления.
type TraceID string

// maxTraceIDLen ограничивает ID, пришедший снаружи в заголовке.
const maxTraceIDLen = 64

func NewTraceID() TraceID {
	return TraceID(xid.New().String())
}

// ParseTraceID принимает внешний ID, если он непустой и разумной длины.
func ParseTraceID(raw string) (TraceID, bool) {
	if raw == "" || len(raw) > maxTraceIDLen {
		return "", false
	}

	return TraceID(raw), true
}

type contextKeyTraceID struct{}

func (t TraceID) String() string {
	return string(t)
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	traceID, ok := ctx.Value(contextKeyTraceID{}).(TraceID)
	if !ok {
		return "", fmt.Errorf("trace id: %w", ErrNoValue)
	}

	return traceID, nil
}

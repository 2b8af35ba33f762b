package middlewarex

import (
	"net/http"

	"coffer_scanner/pkg/contextx"
)

const headerNameTraceID = "X-Trace-Id"

// TraceID берёт ID из заголовка или выдаёт новый; ответ всегда несёт его обратно.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID, ok := contextx.ParseTraceID(r.Header.Get(headerNameTraceID))
		if !ok {
			traceID = contextx.NewTraceID()
		}

		w.Header().Set(headerNameTraceID, traceID.String())

		next.ServeHTTP(w, r.WithContext(contextx.WithTraceID(r.Context(), traceID)))
	})
}

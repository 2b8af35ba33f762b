package middlewarex

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"coffer_scanner/pkg/errcodes"
	"coffer_scanner/pkg/httpx/reply"
	"coffer_scanner/pkg/logx"
)

type panicResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

// Recovery переводит панику хэндлера в 500 с тем же телом, что и reply.Error.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler { //nolint:errorlint,err113
				panic(rec)
			}

			logger(ctx).Error(
				"panic in handler",
				slog.Any(logx.FieldError, rec),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)

			reply.JSON(ctx, w, http.StatusInternalServerError, panicResponse{
				Code:      errcodes.InternalServerError.String(),
				Message:   "internal error",
				SupportID: w.Header().Get(headerNameTraceID),
			})
		}()

		next.ServeHTTP(w, r)
	})
}

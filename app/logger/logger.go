package logger

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type fieldsKey struct{}

// requestFields collects attributes added by handlers further down the chain.
type requestFields struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// AddFields attaches attrs to the completion line of the current request.
// It is a no-op outside StructuredLogger.
func AddFields(ctx context.Context, attrs ...slog.Attr) {
	f, ok := ctx.Value(fieldsKey{}).(*requestFields)
	if !ok {
		return
	}
	f.mu.Lock()
	f.attrs = append(f.attrs, attrs...)
	f.mu.Unlock()
}

// StructuredLogger logs one line per request with its status, size and latency, plus
// whatever AddFields recorded (the session user id on authenticated routes).
// RequestID must run before it.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			fields := &requestFields{}
			ctx := context.WithValue(r.Context(), fieldsKey{}, fields)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status == http.StatusUnauthorized || status == http.StatusForbidden:
				level = slog.LevelWarn
			}

			fields.mu.Lock()
			attrs := append([]slog.Attr{
				slog.String("req_id", middleware.GetReqID(ctx)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("latency", time.Since(start)),
			}, fields.attrs...)
			fields.mu.Unlock()

			logger.LogAttrs(ctx, level, "Request completed", attrs...)
		})
	}
}

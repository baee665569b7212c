package middleware

import (
    "log/slog"
    "net/http"
    "time"

    chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewStructuredLogger returns a chi middleware that logs one line per
// request with method, path, status and duration.
func NewStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        fn := func(w http.ResponseWriter, r *http.Request) {
            ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()

            defer func() {
                logger.Info("request",
                    slog.String("method", r.Method),
                    slog.String("path", r.URL.Path),
                    slog.Int("status", ww.Status()),
                    slog.Duration("duration", time.Since(start)))
            }()

            next.ServeHTTP(ww, r)
        }
        return http.HandlerFunc(fn)
    }
}

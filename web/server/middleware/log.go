package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// Logger logs request details and response metrics.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)

			lvl := slog.LevelInfo
			if m.Code >= http.StatusInternalServerError {
				lvl = slog.LevelError
			}
			logger.Log(r.Context(), lvl,
				fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				"request_id", RequestIDFrom(r.Context()),
				"response_code", m.Code,
				"duration", m.Duration,
				"bytes_sent", m.Written,
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/psantana5/tsperf-matrix/pkg/logging"
)

// statusWriter captures the status code written by a handler
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request at debug level, or warn for 5xx responses
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      sw.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if sw.status >= http.StatusInternalServerError {
				logger.Warn("request failed", fields)
				return
			}
			logger.Debug("request", fields)
		})
	}
}

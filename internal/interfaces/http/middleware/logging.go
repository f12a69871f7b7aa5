package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
)

// slowThreshold marks requests worth a warning even when they succeed.
// Discovery runs legitimately take minutes, so this only applies to the
// non-pipeline endpoints via skip-listing /api/v1/search.
const slowThreshold = 3 * time.Second

// defaultSkipPaths are high-frequency probe paths not worth logging.
var defaultSkipPaths = []string{"/health", "/healthz", "/readyz", "/metrics"}

// statusWriter captures the status code and response size.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// RequestLogging returns middleware that logs one line per completed request,
// leveled by status code.
func RequestLogging(logger logging.Logger) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(defaultSkipPaths))
	for _, p := range defaultSkipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			if sw.status == 0 {
				sw.status = http.StatusOK
			}
			elapsed := time.Since(start)
			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", sw.status),
				logging.Duration("elapsed", elapsed),
				logging.Int("bytes", int(sw.bytes)),
				logging.String("remote_addr", r.RemoteAddr),
				logging.String("request_id", chimw.GetReqID(r.Context())),
			}

			switch {
			case sw.status >= 500:
				logger.Error("request failed", fields...)
			case sw.status >= 400:
				logger.Warn("request rejected", fields...)
			case elapsed >= slowThreshold && r.URL.Path != "/api/v1/search":
				logger.Warn("request slow", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		})
	}
}

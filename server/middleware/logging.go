package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/whispering/logger"
)

var quietPaths = map[string]bool{"/health": true, "/alive": true, "/version": true}

// RequestLogger logs every request with method, path, status, upload size,
// response size and duration. Probe endpoints are skipped. 5xx responses log
// at error level, 4xx at warn.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, rec.status,
				logger.FieldSizeBytes, r.ContentLength,
				"response_bytes", rec.written,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			l := log.WithContext(r.Context())
			switch {
			case rec.status >= 500:
				l.Error("request completed", fields)
			case rec.status >= 400:
				l.Warn("request completed", fields)
			default:
				l.Debug("request completed", fields)
			}
		})
	}
}

// recorder captures the status and body size written by the handler.
type recorder struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (rec *recorder) WriteHeader(code int) {
	if !rec.wroteHeader {
		rec.status = code
		rec.wroteHeader = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(b []byte) (int, error) {
	rec.wroteHeader = true
	n, err := rec.ResponseWriter.Write(b)
	rec.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rec *recorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }

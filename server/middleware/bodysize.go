package middleware

import (
	"net/http"

	"github.com/kbukum/whispering/util"
)

const defaultMaxBodySize = 32 * 1024 * 1024

// BodySizeLimit caps the request body at maxSize (e.g. "32MB", default
// 32MB). Reads past the limit fail with *http.MaxBytesError, which the
// handlers render as PAYLOAD_TOO_LARGE. The cap sits above the hosted
// providers' 25MB ceiling so the transcriber reports the precise size.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
)

// DefaultMaxRequestSize caps JSON bodies at 1 MiB
const DefaultMaxRequestSize int64 = 1 << 20

const msgBodyTooLarge = "Request body too large"

// MaxRequestSize answers 413 for bodies declared larger than maxBytes and caps
// undeclared (chunked) bodies so handlers see *http.MaxBytesError on overrun
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				respondErrorJSON(w, r, http.StatusRequestEntityTooLarge, msgBodyTooLarge, nil)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

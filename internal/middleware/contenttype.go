package middleware

import (
	"net/http"
	"strings"
)

// ContentType validates Content-Type headers for requests that carry a body
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasBodyMethod := r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut
		// Bodyless PATCH (toggle) and empty POSTs are allowed through
		if hasBodyMethod && r.ContentLength != 0 {
			contentType := r.Header.Get("Content-Type")

			if contentType == "" {
				respondErrorJSON(w, r, http.StatusBadRequest, "Content-Type header is required", nil)
				return
			}

			if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
				respondErrorJSON(w, r, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

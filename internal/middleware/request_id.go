package middleware

import (
	"net/http"

	"tavolo-order-service/internal/utils"
)

// RequestID stamps every request and response with an id, honoring one the
// caller already supplied so traces line up across services.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := readRequestID(r)
			if requestID == "" {
				requestID = utils.NewID("req")
			}
			r.Header.Set("X-Request-Id", requestID)
			w.Header().Set("X-Request-Id", requestID)
			next.ServeHTTP(w, r)
		})
	}
}

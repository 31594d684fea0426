// Package middleware holds the HTTP middleware shared by all routes.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"fundline/pkg/requestcontext"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an ID for log correlation. An inbound
// X-Request-ID is trusted so portal traces line up with engine logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

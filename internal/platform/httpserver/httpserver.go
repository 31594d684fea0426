// Package httpserver configures the engine's HTTP listener.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the http.Server fronting the lender API. Header reads and idle
// portal connections are bounded so a stalled client cannot hold a slot
// indefinitely.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

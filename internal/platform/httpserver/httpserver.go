package httpserver

import (
	"net/http"
	"time"
)

// New builds the service's HTTP server. Read and write timeouts stay above
// the 30s request timeout the router applies, so the middleware deadline
// fires first.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       35 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Timeouts are generous because plan bundles and
// finalization touch several tables per request, but bounded so a stuck
// client cannot pin a connection.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

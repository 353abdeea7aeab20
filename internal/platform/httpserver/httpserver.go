package httpserver

import (
	"net/http"
	"time"
)

// New builds the registry's HTTP server. The header read timeout bounds
// slow-client connections; request deadlines are the handlers' concern.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tel9980/KVideo/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an http.Handler that knows which route patterns it serves.
// Patterns use [net/http.ServeMux] syntax and may be method-qualified.
type Handler interface {
	http.Handler
	Routes() []string // Routes returns the patterns this handler serves
}

// Router registers handlers and middleware and serves the combined tree.
type Router interface {
	Use(middleware ...Middleware)
	Handle(pattern string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// New builds an http.Server for the config API with conservative timeouts.
func New(conf shared.ServerConfig, router Router) *http.Server {
	host := conf.Host
	if host == "" {
		host = "localhost"
	}
	port := conf.Port
	if port == 0 {
		port = 8090
	}

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

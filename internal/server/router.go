package server

import "net/http"

// Mux is a [Router] backed by [http.ServeMux], relying on the mux's
// method-qualified patterns for method dispatch.
type Mux struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewMux creates an empty [Mux].
func NewMux() *Mux {
	return &Mux{mux: http.NewServeMux()}
}

// Use adds [Middleware] to the stack. Middleware registered here wraps every
// handler registered afterwards, in reverse order (last added wraps first).
func (m *Mux) Use(middleware ...Middleware) {
	m.middlewares = append(m.middlewares, middleware...)
}

// Handle registers a handler for the given pattern, wrapped with all
// registered middleware. Patterns like "GET /api/config" restrict the method;
// the mux answers 405 for the rest.
func (m *Mux) Handle(pattern string, handler http.Handler) {
	m.mux.Handle(pattern, m.apply(handler))
}

// Handler registers every route a [Handler] declares.
func (m *Mux) Handler(handler Handler) {
	wrapped := m.apply(handler)
	for _, pattern := range handler.Routes() {
		m.mux.Handle(pattern, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

func (m *Mux) apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(m.middlewares) - 1; i >= 0; i-- {
		wrapped = m.middlewares[i](wrapped)
	}
	return wrapped
}

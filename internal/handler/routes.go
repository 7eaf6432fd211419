package handler

import (
	"net/http"

	"github.com/msomdec/usercrud/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. A nil limiter
// leaves the API unthrottled.
func RegisterRoutes(mux *http.ServeMux, users *service.UserService, db Pinger, limiter *service.TokenBucket) {
	h := NewUserHandler(users)
	api := func(fn http.HandlerFunc) http.Handler { return RateLimit(limiter, fn) }

	mux.Handle("GET /api/user/{$}", api(h.HandleList))
	mux.Handle("GET /api/user/{id}", api(h.HandleGet))
	mux.Handle("POST /api/user/{$}", api(h.HandleCreate))
	mux.Handle("PUT /api/user/{id}", api(h.HandleUpdate))
	mux.Handle("DELETE /api/user/{id}", api(h.HandleDelete))
	mux.Handle("DELETE /api/user/{$}", api(h.HandleDeleteAll))

	mux.HandleFunc("GET /healthz", HandleHealthz(db))
	mux.HandleFunc("GET /{$}", HandleHome(users))
}

// Wrap applies the standard middleware stack around the mux. The metrics
// and logging middleware sit directly around the mux so they can read the
// matched route pattern. m may be nil.
func Wrap(mux http.Handler, m *Metrics) http.Handler {
	var h http.Handler = mux
	if m != nil {
		h = m.Middleware(h)
	}
	h = RequestLogger(h)
	h = RequestID(h)
	return SecurityHeaders(h)
}

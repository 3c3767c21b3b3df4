/*
Package server implements the application's network transport layer.
It wires the router, configures timeouts, and holds the collaborators
the routes need.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	"PawPulse/internal/database"
	"PawPulse/internal/pet"
	"PawPulse/internal/utility"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// db is nil when no database is configured.
	db database.Service

	pets    *pet.Handler
	limiter *utility.RateLimiter

	cacheBackend string
	cacheTTL     time.Duration

	startTime time.Time
}

// Options carries what NewServer needs. DB may be nil; Limiter may be nil to
// disable rate limiting.
type Options struct {
	Port    int
	DB      database.Service
	Pets    *pet.Handler
	Limiter *utility.RateLimiter

	// Reported by /health.
	CacheBackend string
	CacheTTL     time.Duration
}

func newServer(opts Options) *Server {
	port := opts.Port
	if port == 0 {
		port = 8080
	}
	return &Server{
		port:    port,
		db:      opts.DB,
		pets:    opts.Pets,
		limiter: opts.Limiter,

		cacheBackend: opts.CacheBackend,
		cacheTTL:     opts.CacheTTL,
		startTime:    time.Now(),
	}
}

// NewServer returns a configured *http.Server with production-ready network
// timeouts.
func NewServer(opts Options) *http.Server {
	app := newServer(opts)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", app.port),
		Handler:      app.RegisterRoutes(), // Injected from routes.go
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		// Pro-tier model calls on large media can take a while.
		WriteTimeout: 60 * time.Second,
	}
}

package web

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/strlens/strlens/internal/config"
)

// NewServer creates and configures the HTTP server for the strlens JSON API.
func NewServer(db *sql.DB, cfg *config.Config, version, bind string, port int) *http.Server {
	h := &Handlers{
		db:      db,
		cfg:     cfg,
		version: version,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax. The filter-by-natural-language
	// literal is more specific than the {id} wildcard, so registration
	// order doesn't matter.
	mux.HandleFunc("GET /{$}", h.HandleDocs)
	mux.HandleFunc("POST /strings", h.HandleCreate)
	mux.HandleFunc("GET /strings", h.HandleList)
	mux.HandleFunc("GET /strings/filter-by-natural-language", h.HandleQuery)
	mux.HandleFunc("GET /strings/{id}", h.HandleGet)
	mux.HandleFunc("DELETE /strings/{id}", h.HandleDelete)

	handler := securityHeaders(requestID(mux))

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// requestID tags each request with a ULID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.Make().String()
		w.Header().Set("X-Request-ID", id)
		log.Printf("%s %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("strlens API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

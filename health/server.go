// Package health serves the liveness endpoint polled by the hosting platform.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const runningStatus = "Bot is running!"

// isoMillis matches the millisecond precision UTC format liveness probes usually expect.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Status is the body returned by GET /.
type Status struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Server is the HTTP liveness server.
type Server struct {
	srv *http.Server
	now func() time.Time
}

// NewServer creates a server listening on port once started.
func NewServer(port int) *Server {
	s := &Server{now: time.Now}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router returns the chi router serving the health routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleStatus)
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(Status{
		Status:    runningStatus,
		Timestamp: s.now().UTC().Format(isoMillis),
	})
	if err != nil {
		slog.Error("failed to write health status", "error", err)
	}
}

// requestLogger logs each request at debug level once it has been served.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// Start binds the port and serves in the background. Binding errors are returned;
// errors after that are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	slog.Info("health check server running", "addr", ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("health check server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

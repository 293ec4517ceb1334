// Package server implements the dashboard HTTP server: three JSON endpoints
// summarizing agent activity plus a static file fallback for the frontend.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wethinkt/go-molty/internal/activity"
	"github.com/wethinkt/go-molty/internal/catalog"
	"github.com/wethinkt/go-molty/internal/config"
	"github.com/wethinkt/go-molty/internal/dashlog"
	"github.com/wethinkt/go-molty/internal/gitstats"
)

var (
	// ErrPortInUse is returned when another dashboard instance holds the port.
	ErrPortInUse = errors.New("port already in use by another molty instance")
	// ErrNotLoopback is returned for a bind host reachable from other machines.
	ErrNotLoopback = errors.New("host is not a loopback address")
)

// Config holds server configuration.
type Config struct {
	Host      string
	Port      int
	StaticDir string // Served for every non-API path; empty disables
	Metrics   bool   // Mount /metrics
	Quiet     bool   // Suppress the HTTP access log
	AccessLog io.Writer
	Instances *config.Registry // Optional; used to detect port clashes
}

// DefaultConfig returns a loopback configuration on the default port.
func DefaultConfig() Config {
	return Config{
		Host:      config.DefaultHost,
		Port:      config.DefaultPort,
		StaticDir: ".",
	}
}

// Sources are the data providers behind the API.
type Sources struct {
	Tracker *activity.Tracker
	Journal catalog.Journal
	Stats   *gitstats.Aggregator
}

// Server serves the dashboard API and static assets.
type Server struct {
	config  Config
	sources Sources
	router  chi.Router
}

// New creates a server. Sources are injected so the cursor and stats cache
// live in one place per process.
func New(sources Sources, cfg Config) *Server {
	s := &Server{
		config:  cfg,
		sources: sources,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if !s.config.Quiet {
		out := s.config.AccessLog
		if out == nil {
			out = os.Stdout
		}
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  log.New(out, "", log.LstdFlags),
			NoColor: true,
		}))
	}
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/projects", s.handleProjects)
		r.Get("/stats", s.handleStats)
		r.Get("/health", s.handleHealth)
	})

	if s.config.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	if s.config.StaticDir != "" {
		static := staticHandler(s.config.StaticDir)
		r.Get("/*", static.ServeHTTP)
		r.Head("/*", static.ServeHTTP)
	}

	return r
}

// Handler returns the full handler chain including response compression.
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// ListenAndServe starts the server and blocks until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if !config.IsLoopback(s.config.Host) {
		return fmt.Errorf("%w: %q", ErrNotLoopback, s.config.Host)
	}
	if reg := s.config.Instances; reg != nil && s.config.Port != 0 {
		if existing := reg.FindByPort(s.config.Port); existing != nil {
			return fmt.Errorf("%w: %s (PID %d, started %s)", ErrPortInUse,
				existing.URL(), existing.PID, existing.StartedAt.Format(time.RFC3339))
		}
	}

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// Update port if it was auto-assigned
	if s.config.Port == 0 {
		s.config.Port = ln.Addr().(*net.TCPAddr).Port
	}

	inst := config.Instance{
		PID:       os.Getpid(),
		Host:      s.config.Host,
		Port:      s.config.Port,
		StaticDir: s.config.StaticDir,
		StartedAt: time.Now(),
	}
	if reg := s.config.Instances; reg != nil {
		if err := reg.Register(inst); err != nil {
			dashlog.Log.Warn("Failed to register instance", "error", err)
		}
	}

	go func() {
		<-ctx.Done()
		if reg := s.config.Instances; reg != nil {
			reg.Unregister(os.Getpid())
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	dashlog.Log.Info("Server listening", "url", inst.URL())
	fmt.Printf("molty dashboard running at %s\n", inst.URL())

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// corsMiddleware lets a frontend served from another origin poll the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

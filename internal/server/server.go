package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonathan/outreach-forge/internal/config"
	"github.com/jonathan/outreach-forge/internal/ingestion"
	"github.com/jonathan/outreach-forge/internal/llm"
	"github.com/jonathan/outreach-forge/internal/outreach"
	"github.com/jonathan/outreach-forge/internal/server/middleware"
	"github.com/jonathan/outreach-forge/internal/server/ratelimit"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// sweepInterval is how often expired sessions are closed.
const sweepInterval = time.Minute

// ClientFactory creates the model client owned by a new session.
type ClientFactory func(ctx context.Context) (llm.Client, error)

// Config holds server configuration
type Config struct {
	Port       int
	APIKey     string
	Model      string
	Timeout    time.Duration
	UseBrowser bool
	Verbose    bool

	// AllowPrivateHosts lets jobUrl reach loopback, private and link-local
	// addresses. Only for tests and trusted single-user deployments.
	AllowPrivateHosts bool

	// Optional; read from the environment when nil.
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config

	// Optional; a Gemini client per session when nil.
	NewClient ClientFactory
	// Optional; structured logs to stderr when nil.
	Observer outreach.Observer
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	cfg         Config
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	sessions    *sessionStore
	loader      *ingestion.URLLoader
	newClient   ClientFactory
	observer    outreach.Observer
	stopSweep   chan struct{}
	closeOnce   sync.Once
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	jwtConfig := cfg.JWT
	if jwtConfig == nil {
		var err error
		jwtConfig, err = config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create session token config: %w", err)
		}
	}

	rateConfig := cfg.RateLimit
	if rateConfig == nil {
		rateConfig = ratelimit.LoadConfig()
	}

	s := &Server{
		cfg:         cfg,
		jwtService:  NewJWTService(jwtConfig),
		rateLimiter: ratelimit.NewLimiter(rateConfig),
		sessions:    newSessionStore(),
		loader:      newLoader(cfg),
		newClient:   cfg.NewClient,
		observer:    cfg.Observer,
		stopSweep:   make(chan struct{}),
	}
	if s.newClient == nil {
		s.newClient = s.geminiClient
	}
	if s.observer == nil {
		s.observer = outreach.NewLogObserver(os.Stderr)
	}

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.Handle("DELETE /sessions", auth(http.HandlerFunc(s.handleDeleteSession)))
	mux.Handle("POST /generate", auth(http.HandlerFunc(s.handleGenerate)))
	mux.Handle("GET /state", auth(http.HandlerFunc(s.handleState)))
	mux.Handle("GET /events", auth(http.HandlerFunc(s.handleEvents)))
	mux.Handle("GET /result.html", auth(http.HandlerFunc(s.handleResultHTML)))
	mux.Handle("GET /result.md", auth(http.HandlerFunc(s.handleResultMarkdown)))

	s.handler = s.withLogging(s.rateLimiter.Middleware(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // event streams stay open for the whole generation
		IdleTimeout:  60 * time.Second,
	}

	go s.sweepLoop()
	return s, nil
}

func newLoader(cfg Config) *ingestion.URLLoader {
	if cfg.AllowPrivateHosts {
		return ingestion.NewLocalURLLoader(cfg.UseBrowser, cfg.Verbose)
	}
	return ingestion.NewURLLoader(cfg.UseBrowser, cfg.Verbose)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops accepting requests, then closes every session.
func (s *Server) Shutdown(ctx context.Context) error {
	// Closing sessions first ends open event streams so Shutdown can drain.
	s.Close()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// Close releases sessions and background goroutines without touching the listener.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.stopSweep)
		s.rateLimiter.Stop()
		s.sessions.closeAll()
	})
}

func (s *Server) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.sessions.sweep(); n > 0 {
				log.Printf("[session] Closed %d expired sessions", n)
			}
		case <-s.stopSweep:
			return
		}
	}
}

func (s *Server) geminiClient(ctx context.Context) (llm.Client, error) {
	cfg := llm.DefaultConfig()
	if s.cfg.Model != "" {
		cfg.Model = s.cfg.Model
	}
	return llm.NewClient(ctx, cfg, s.cfg.APIKey)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps event streams working through the logging wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response with a status derived from err.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] Internal error: %v", err)
	}
	s.jsonResponse(w, status, map[string]string{
		"error": err.Error(),
		"code":  errorCode(status),
	})
}

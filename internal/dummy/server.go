package dummy

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Mode string

const (
	// ModeOK answers 200 to everything, including reads of absent keys.
	ModeOK Mode = "ok"
	// ModeStrict answers 404 for reads and deletes of absent keys.
	ModeStrict Mode = "strict"
	// ModeFail answers 500 to everything.
	ModeFail Mode = "fail"
	// ModeFlaky answers 500 with probability ErrorRate.
	ModeFlaky Mode = "flaky"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeOK, ModeStrict, ModeFail, ModeFlaky:
		return m, nil
	}
	return "", fmt.Errorf("unknown dummy mode %q (want ok|strict|fail|flaky)", s)
}

type ServerConfig struct {
	Port      int
	Mode      Mode
	Latency   time.Duration
	ErrorRate float64
}

// Server is an in-memory key/value target speaking the /create, /read,
// /delete contract.
type Server struct {
	cfg ServerConfig

	mu   sync.RWMutex
	data map[string]string
}

func New(cfg ServerConfig) *Server {
	if cfg.Mode == "" {
		cfg.Mode = ModeOK
	}
	return &Server{cfg: cfg, data: make(map[string]string)}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.inject)
	r.Post("/create", s.create)
	r.Get("/read", s.read)
	r.Delete("/delete", s.delete)
	return r
}

func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// inject applies the configured latency and failure behaviour before any
// handler runs.
func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Latency > 0 {
			time.Sleep(s.cfg.Latency)
		}
		switch {
		case s.cfg.Mode == ModeFail,
			s.cfg.Mode == ModeFlaky && rand.Float64() < s.cfg.ErrorRate:
			http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := r.PostForm.Get("key")
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.data[key] = r.PostForm.Get("value")
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) read(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	s.mu.RLock()
	v, ok := s.data[key]
	s.mu.RUnlock()
	if !ok && s.cfg.Mode == ModeStrict {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(v))
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	s.mu.Lock()
	_, ok := s.data[key]
	delete(s.data, key)
	s.mu.Unlock()
	if !ok && s.cfg.Mode == ModeStrict {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Start listens on cfg.Port in the background and returns once the socket
// is bound.
func Start(cfg ServerConfig, logger *zap.Logger) (*http.Server, error) {
	addr := fmt.Sprintf(":%d", cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s := New(cfg)
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("dummy server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("mode", string(s.cfg.Mode)),
		zap.Duration("latency", cfg.Latency),
	)

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("dummy server failed", zap.Error(err))
		}
	}()
	return server, nil
}

func Shutdown(ctx context.Context, server *http.Server) error {
	return server.Shutdown(ctx)
}

// Package httpapi exposes the skill and the webhook receiver over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/highvoltag3/BamVoo/internal/application"
	"github.com/highvoltag3/BamVoo/internal/domain"
	xlog "github.com/highvoltag3/BamVoo/internal/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultWebhookRateLimit  = 60
	defaultWebhookRateWindow = time.Minute
	maxRequestBytes          = 1 << 20
)

type SkillHandler interface {
	Handle(ctx context.Context, req application.Request, state domain.SessionState) application.Turn
}

type WebhookHandler interface {
	HandleWebhook(ctx context.Context, event domain.NotificationEvent) application.WebhookResponse
}

type Config struct {
	ListenAddr        string
	WebhookRateLimit  int
	WebhookRateWindow time.Duration
	ReadHeaderTimeout time.Duration
	// TracingService names server spans. Empty disables tracing.
	TracingService string
}

type Server struct {
	cfg     Config
	skill   SkillHandler
	webhook WebhookHandler
	handler http.Handler

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	closed   bool
}

func New(cfg Config, skill SkillHandler, webhook WebhookHandler) (*Server, error) {
	if skill == nil {
		return nil, errors.New("skill handler is nil")
	}
	if webhook == nil {
		return nil, errors.New("webhook handler is nil")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.WebhookRateLimit <= 0 {
		cfg.WebhookRateLimit = defaultWebhookRateLimit
	}
	if cfg.WebhookRateWindow <= 0 {
		cfg.WebhookRateWindow = defaultWebhookRateWindow
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}

	s := &Server{cfg: cfg, skill: skill, webhook: webhook}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(Metrics)
	if s.cfg.TracingService != "" {
		r.Use(Tracing(s.cfg.TracingService))
	}
	r.Use(AccessLog)

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/skill", s.handleSkill)
	r.With(RateLimit(s.cfg.WebhookRateLimit, s.cfg.WebhookRateWindow)).Post("/webhook", s.handleWebhook)

	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr reports the bound address once Start has opened the listener.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start listens and serves until Shutdown. It returns nil after a clean
// shutdown, including one that happened before Start got to serve.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = listener.Close()
		return nil
	}
	s.srv = srv
	s.listener = listener
	s.mu.Unlock()

	logger := xlog.WithComponent("http")
	logger.Info().
		Str(xlog.FieldEvent, "http.listening").
		Str("addr", listener.Addr().String()).
		Msg("http server listening")

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// Shutdown stops a running server. Called before Start, it makes a later
// Start return nil without serving.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

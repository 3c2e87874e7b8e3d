// Package server exposes snapshots over HTTP together with the site-facing
// robots, sitemap and Open Graph endpoints.
package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/atlas/internal/metrics"
	"github.com/leapstack-labs/atlas/internal/server/notifier"
	"github.com/leapstack-labs/atlas/internal/snapshot"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// Config holds configuration for the server.
type Config struct {
	Addr    string
	Service *snapshot.Service
	// SiteURL is the public origin used in robots.txt and sitemap.xml.
	SiteURL        string
	RobotsDisallow []string
	// WatchDir is the SEO site root. Changes to its source files trigger a
	// rebuild of the SEO snapshot. Empty disables watching.
	WatchDir string
	// RefreshInterval rebuilds cached snapshots in the background. Zero uses
	// the service TTL; a negative value disables the refresher.
	RefreshInterval  time.Duration
	SessionSecret    string
	Brands           map[string]string
	DefaultBrand     string
	ReferrerPersonas map[string]string
	Metrics          *metrics.Registry
	Logger           *slog.Logger
}

// Server is the atlas HTTP server.
type Server struct {
	cfg      Config
	svc      *snapshot.Service
	sessions *sessions.CookieStore
	notifier *notifier.Notifier
	metrics  *metrics.Registry
	logger   *slog.Logger
}

// New creates a server. Without a session secret a random key is used, so
// attribution cookies do not survive a restart.
func New(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("server: snapshot service is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewRegistry()
	}

	cfg.Brands = lowerKeys(cfg.Brands)
	cfg.ReferrerPersonas = lowerKeys(cfg.ReferrerPersonas)

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		cfg.Logger.Warn("no session secret configured; using an ephemeral key")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
	}
	store := sessions.NewCookieStore(secret)
	store.MaxAge(86400 * 90)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	s := &Server{
		cfg:      cfg,
		svc:      cfg.Service,
		sessions: store,
		notifier: notifier.New(),
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	s.svc.OnRefresh(s.notifier.Broadcast)
	return s, nil
}

// Notifier returns the refresh event notifier.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, running the file
// watcher and background refresher alongside.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting atlas server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.WatchDir != "" {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	if interval := s.refreshInterval(); interval > 0 {
		eg.Go(func() error {
			s.refreshLoop(egctx, interval)
			return nil
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down atlas server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func (s *Server) refreshInterval() time.Duration {
	if s.cfg.RefreshInterval == 0 {
		return s.svc.TTL()
	}
	return s.cfg.RefreshInterval
}

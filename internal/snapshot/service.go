// Package snapshot serves ESA, SEO and content snapshots through a shared
// cache, archives them on request and reports build metrics.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/leapstack-labs/atlas/internal/cache"
	"github.com/leapstack-labs/atlas/internal/metrics"
	"github.com/leapstack-labs/atlas/internal/state"
	"github.com/leapstack-labs/atlas/pkg/core"
)

// ErrUnknownMode is returned for a content mode other than static or live.
var ErrUnknownMode = errors.New("snapshot: unknown content mode")

// ErrNoArchive is returned by archive operations when no store is configured.
var ErrNoArchive = errors.New("snapshot: no archive configured")

// ESABuilder builds registry/tree snapshots.
type ESABuilder interface {
	Build(ctx context.Context) (*core.ESASnapshot, error)
}

// SEOBuilder builds local SEO snapshots.
type SEOBuilder interface {
	Build(ctx context.Context) (*core.SEOSnapshot, error)
}

// ContentAnalyzer builds content coverage snapshots.
type ContentAnalyzer interface {
	Static(ctx context.Context) (*core.ContentSnapshot, error)
	Live(ctx context.Context, baseURL string) (*core.ContentSnapshot, error)
}

// Archive persists snapshot history.
type Archive interface {
	Save(ctx context.Context, h core.SnapshotHeader, snapshot any) error
	List(ctx context.Context, kind core.SnapshotKind, limit int) ([]core.SnapshotHeader, error)
	Get(ctx context.Context, id string) (*state.Record, error)
}

// Config wires a Service. Every dependency except the builders is optional.
type Config struct {
	ESA     ESABuilder
	SEO     SEOBuilder
	Content ContentAnalyzer

	Cache   cache.Cache
	TTL     time.Duration
	Archive Archive
	// AutoArchive saves every fresh build to the archive.
	AutoArchive bool
	// LiveBaseURL is used for live content when the caller gives none.
	LiveBaseURL string
	Metrics     *metrics.Registry
	Logger      *slog.Logger
}

// Service is safe for concurrent use. Concurrent misses for the same key
// share one build.
type Service struct {
	cfg    Config
	cache  cache.Cache
	logger *slog.Logger
	group  singleflight.Group

	mu        sync.RWMutex
	listeners []func(core.SnapshotHeader)
}

// New creates a service. A nil cache means an in-process cache.
func New(cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = cache.DefaultTTL
	}
	c := cfg.Cache
	if c == nil {
		c = cache.NewMemory()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{cfg: cfg, cache: c, logger: logger}
}

// TTL returns the cache lifetime of a snapshot.
func (s *Service) TTL() time.Duration { return s.cfg.TTL }

// OnRefresh registers fn to run after every fresh build.
func (s *Service) OnRefresh(fn func(core.SnapshotHeader)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func esaKey() string { return "snapshot:esa" }
func seoKey() string { return "snapshot:seo" }

func contentKey(mode core.ContentMode, base string) string {
	if mode == core.ContentLive {
		return "snapshot:content:live:" + base
	}
	return "snapshot:content:static"
}

// ESA returns the cached ESA snapshot or builds one. hit reports whether the
// cache answered.
func (s *Service) ESA(ctx context.Context) (snap *core.ESASnapshot, hit bool, err error) {
	if s.cfg.ESA == nil {
		return nil, false, errors.New("snapshot: esa builder not configured")
	}
	return load(ctx, s, core.KindESA, esaKey(), s.cfg.ESA.Build, ESAHeader)
}

// SEO returns the cached SEO snapshot or builds one.
func (s *Service) SEO(ctx context.Context) (snap *core.SEOSnapshot, hit bool, err error) {
	if s.cfg.SEO == nil {
		return nil, false, errors.New("snapshot: seo builder not configured")
	}
	return load(ctx, s, core.KindSEO, seoKey(), s.cfg.SEO.Build, SEOHeader)
}

// Content returns the cached content snapshot for mode or builds one. For
// live mode an empty baseURL falls back to the configured one.
func (s *Service) Content(ctx context.Context, mode core.ContentMode, baseURL string) (snap *core.ContentSnapshot, hit bool, err error) {
	if s.cfg.Content == nil {
		return nil, false, errors.New("snapshot: content analyzer not configured")
	}
	switch mode {
	case "", core.ContentStatic:
		return load(ctx, s, core.KindContent, contentKey(core.ContentStatic, ""), s.cfg.Content.Static, ContentHeader)
	case core.ContentLive:
		if baseURL == "" {
			baseURL = s.cfg.LiveBaseURL
		}
		build := func(ctx context.Context) (*core.ContentSnapshot, error) {
			return s.cfg.Content.Live(ctx, baseURL)
		}
		return load(ctx, s, core.KindContent, contentKey(core.ContentLive, baseURL), build, ContentHeader)
	default:
		return nil, false, fmt.Errorf("%w %q", ErrUnknownMode, mode)
	}
}

// Invalidate drops cached snapshots of the given kinds. Live content entries
// are keyed by base URL; only the configured base is dropped.
func (s *Service) Invalidate(ctx context.Context, kinds ...core.SnapshotKind) error {
	var keys []string
	for _, k := range kinds {
		switch k {
		case core.KindESA:
			keys = append(keys, esaKey())
		case core.KindSEO:
			keys = append(keys, seoKey())
		case core.KindContent:
			keys = append(keys, contentKey(core.ContentStatic, ""))
			if s.cfg.LiveBaseURL != "" {
				keys = append(keys, contentKey(core.ContentLive, s.cfg.LiveBaseURL))
			}
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate: %w", err)
	}
	s.logger.Debug("snapshots invalidated", "keys", keys)
	return nil
}

// InvalidateLive drops the cached live content snapshot of baseURL. An empty
// baseURL means the configured one.
func (s *Service) InvalidateLive(ctx context.Context, baseURL string) error {
	if baseURL == "" {
		baseURL = s.cfg.LiveBaseURL
	}
	if baseURL == "" {
		return nil
	}
	key := contentKey(core.ContentLive, baseURL)
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate: %w", err)
	}
	s.logger.Debug("snapshots invalidated", "keys", []string{key})
	return nil
}

// Refresh invalidates and rebuilds one kind.
func (s *Service) Refresh(ctx context.Context, kind core.SnapshotKind) (core.SnapshotHeader, error) {
	if err := s.Invalidate(ctx, kind); err != nil {
		return core.SnapshotHeader{}, err
	}
	switch kind {
	case core.KindESA:
		snap, _, err := s.ESA(ctx)
		if err != nil {
			return core.SnapshotHeader{}, err
		}
		return ESAHeader(snap), nil
	case core.KindSEO:
		snap, _, err := s.SEO(ctx)
		if err != nil {
			return core.SnapshotHeader{}, err
		}
		return SEOHeader(snap), nil
	case core.KindContent:
		snap, _, err := s.Content(ctx, core.ContentStatic, "")
		if err != nil {
			return core.SnapshotHeader{}, err
		}
		return ContentHeader(snap), nil
	default:
		return core.SnapshotHeader{}, fmt.Errorf("snapshot: unknown kind %q", kind)
	}
}

// Save archives a snapshot explicitly.
func (s *Service) Save(ctx context.Context, h core.SnapshotHeader, snapshot any) error {
	if s.cfg.Archive == nil {
		return ErrNoArchive
	}
	return s.cfg.Archive.Save(ctx, h, snapshot)
}

// History lists archived headers, newest first.
func (s *Service) History(ctx context.Context, kind core.SnapshotKind, limit int) ([]core.SnapshotHeader, error) {
	if s.cfg.Archive == nil {
		return nil, ErrNoArchive
	}
	return s.cfg.Archive.List(ctx, kind, limit)
}

// Archived returns one archived snapshot by ID.
func (s *Service) Archived(ctx context.Context, id string) (*state.Record, error) {
	if s.cfg.Archive == nil {
		return nil, ErrNoArchive
	}
	return s.cfg.Archive.Get(ctx, id)
}

// load serves key from the cache or runs build once for all concurrent
// callers, then caches, archives and announces the result. The shared build
// is detached from any one caller's cancellation; each caller stops waiting
// when its own context ends.
func load[T any](
	ctx context.Context,
	s *Service,
	kind core.SnapshotKind,
	key string,
	build func(context.Context) (*T, error),
	header func(*T) core.SnapshotHeader,
) (*T, bool, error) {
	var cached T
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
	}
	if hit {
		s.cfg.Metrics.ObserveCache(string(kind), true)
		return &cached, true, nil
	}
	s.cfg.Metrics.ObserveCache(string(kind), false)

	buildCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		ctx := buildCtx
		start := time.Now()
		snap, err := build(ctx)
		if err != nil {
			s.cfg.Metrics.ObserveBuild(string(kind), time.Since(start), 0, err)
			return nil, err
		}
		h := header(snap)
		s.cfg.Metrics.ObserveBuild(string(kind), time.Since(start), h.Score, nil)

		if err := s.cache.Set(ctx, key, snap, s.cfg.TTL); err != nil {
			s.logger.Warn("cache write failed", "key", key, "error", err)
		}
		if s.cfg.AutoArchive && s.cfg.Archive != nil {
			if err := s.cfg.Archive.Save(ctx, h, snap); err != nil {
				s.logger.Warn("archive failed", "id", h.ID, "kind", kind, "error", err)
			}
		}
		s.notify(h)
		s.logger.Debug("snapshot built", "kind", kind, "id", h.ID, "score", h.Score, "duration", time.Since(start))
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*T), false, nil
	}
}

func (s *Service) notify(h core.SnapshotHeader) {
	s.mu.RLock()
	listeners := append([]func(core.SnapshotHeader){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(h)
	}
}

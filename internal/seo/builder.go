package seo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/atlas/pkg/content"
	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/leapstack-labs/atlas/pkg/gate"
	_ "github.com/leapstack-labs/atlas/pkg/gate/gates" // registers G1-G5
)

// Config configures the builder.
type Config struct {
	// SiteRoot is the site repository checkout on disk.
	SiteRoot string
	// SiteURL is the canonical origin, e.g. https://example.com.
	SiteURL       string
	DisabledGates []string
}

// Builder assembles SEO snapshots.
type Builder struct {
	cfg    Config
	fsys   fs.FS
	logger *slog.Logger
	now    func() time.Time
}

// NewBuilder creates a builder reading from cfg.SiteRoot.
func NewBuilder(cfg Config, logger *slog.Logger) *Builder {
	var fsys fs.FS
	if cfg.SiteRoot != "" {
		fsys = os.DirFS(cfg.SiteRoot)
	}
	return NewBuilderFS(cfg, fsys, logger)
}

// NewBuilderFS creates a builder over an arbitrary file system.
func NewBuilderFS(cfg Config, fsys fs.FS, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{cfg: cfg, fsys: fsys, logger: logger, now: time.Now}
}

// Inputs holds everything extracted from the site sources.
type Inputs struct {
	Routes   []RawRoute
	Gate     gate.Input
	Warnings []string
}

// Extract reads every source file. Missing files become warnings; other read
// errors are returned.
func (b *Builder) Extract(ctx context.Context) (*Inputs, error) {
	if b.fsys == nil {
		return nil, errors.New("seo: site root not configured")
	}
	if info, err := fs.Stat(b.fsys, "."); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("seo: site root %q is not a readable directory", b.cfg.SiteRoot)
	}

	in := &Inputs{Gate: gate.Input{SiteURL: b.cfg.SiteURL}}

	read := func(name string) (string, bool, error) {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		data, err := fs.ReadFile(b.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			b.logger.Warn("seo source missing", "file", name)
			in.Warnings = append(in.Warnings, name+" not found")
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("read %s: %w", name, err)
		}
		return string(data), true, nil
	}

	src, ok, err := read(RoutesFile)
	if err != nil {
		return nil, err
	}
	if ok {
		in.Routes = ExtractRoutes(src, b.cfg.SiteURL)
	}

	if src, ok, err = read(SitemapFile); err != nil {
		return nil, err
	} else if ok {
		in.Gate.Sitemap = gate.Sitemap{Present: true, Paths: ExtractSitemapPaths(src)}
	}

	if src, ok, err = read(RobotsFile); err != nil {
		return nil, err
	} else if ok {
		in.Gate.Robots = ExtractRobots(src, b.cfg.SiteURL)
	}

	if src, ok, err = read(StructuredDataFile); err != nil {
		return nil, err
	} else if ok {
		in.Gate.StructuredData = ExtractStructuredData(src)
	}

	workflows, err := ScanWorkflows(b.fsys)
	if err != nil {
		return nil, fmt.Errorf("scan workflows: %w", err)
	}
	in.Gate.Workflows = workflows

	sitemap := make(map[string]bool, len(in.Gate.Sitemap.Paths))
	for _, p := range in.Gate.Sitemap.Paths {
		sitemap[trimSlash(p)] = true
	}
	for _, raw := range in.Routes {
		in.Gate.Routes = append(in.Gate.Routes, EvaluateRoute(raw, sitemap[trimSlash(raw.Path)]))
	}

	in.Gate.ContentFindings = content.Analyze(content.StaticCatalog()).Findings
	return in, nil
}

// Build extracts inputs and runs the enabled gates.
func (b *Builder) Build(ctx context.Context) (*core.SEOSnapshot, error) {
	in, err := b.Extract(ctx)
	if err != nil {
		return nil, err
	}

	cfg := gate.NewAnalyzerConfig()
	for _, id := range b.cfg.DisabledGates {
		cfg.DisabledGates[id] = true
	}
	report := gate.NewAnalyzer(cfg).Analyze(&in.Gate)

	snap := &core.SEOSnapshot{
		ID:             uuid.NewString(),
		GeneratedAt:    b.now().UTC(),
		SiteURL:        b.cfg.SiteURL,
		Routes:         in.Gate.Routes,
		SitemapPaths:   in.Gate.Sitemap.Paths,
		StructuredData: in.Gate.StructuredData,
		Gates:          report.Gates,
		Score:          report.Score,
		Warnings:       in.Warnings,
	}
	if snap.Routes == nil {
		snap.Routes = []core.Route{}
	}
	if snap.SitemapPaths == nil {
		snap.SitemapPaths = []string{}
	}
	if snap.StructuredData == nil {
		snap.StructuredData = []string{}
	}
	if snap.Gates == nil {
		snap.Gates = []core.GateResult{}
	}

	b.logger.Debug("seo snapshot built", "routes", len(snap.Routes), "score", snap.Score)
	return snap, nil
}

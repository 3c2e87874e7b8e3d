package coverage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/atlas/internal/crawl"
	"github.com/leapstack-labs/atlas/pkg/content"
	"github.com/leapstack-labs/atlas/pkg/core"
)

// ErrNoBaseURL is returned by Live when no base URL is given.
var ErrNoBaseURL = errors.New("coverage: live mode requires a base URL")

// Config configures the analyzer.
type Config struct {
	Rules       []Rule
	Concurrency int
	Timeout     time.Duration
	MaxPages    int
	Logger      *slog.Logger
}

// Analyzer produces content snapshots.
type Analyzer struct {
	cfg        Config
	classifier *Classifier
	logger     *slog.Logger
	now        func() time.Time
	newCrawler func(crawl.Config) (Crawler, error)
}

// Crawler is the part of crawl.Crawler the live variant uses.
type Crawler interface {
	Crawl(ctx context.Context) (*crawl.Result, error)
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{
		cfg:        cfg,
		classifier: NewClassifier(cfg.Rules),
		logger:     logger,
		now:        time.Now,
		newCrawler: func(c crawl.Config) (Crawler, error) { return crawl.New(c) },
	}
}

// Static analyzes the hardcoded site catalog.
func (a *Analyzer) Static(ctx context.Context) (*core.ContentSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := a.snapshot(core.ContentStatic, "", content.StaticCatalog())
	a.logger.Debug("static content snapshot built", "units", len(snap.Units), "findings", len(snap.Findings))
	return snap, nil
}

// Live crawls baseURL and analyzes every page it can fetch. Sitemap errors
// wrap crawl.ErrSitemap.
func (a *Analyzer) Live(ctx context.Context, baseURL string) (*core.ContentSnapshot, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	c, err := a.newCrawler(crawl.Config{
		BaseURL:     baseURL,
		Concurrency: a.cfg.Concurrency,
		Timeout:     a.cfg.Timeout,
		MaxPages:    a.cfg.MaxPages,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("coverage: %w", err)
	}

	res, err := c.Crawl(ctx)
	if err != nil {
		a.logger.Warn("live crawl failed", "base", baseURL, "error", err)
		return nil, err
	}

	units := make([]core.ContentUnit, 0, len(res.Pages))
	for _, p := range res.Pages {
		units = append(units, a.unitFromPage(p))
	}

	snap := a.snapshot(core.ContentLive, baseURL, units)
	snap.Warnings = append(snap.Warnings, res.Warnings...)
	a.logger.Debug("live content snapshot built", "base", baseURL, "units", len(snap.Units), "warnings", len(snap.Warnings))
	return snap, nil
}

func (a *Analyzer) unitFromPage(p crawl.Page) core.ContentUnit {
	intent, persona := a.classifier.Classify(p.Path)
	h2 := p.H2
	if h2 == nil {
		h2 = []string{}
	}
	return core.ContentUnit{
		ID:       p.Path,
		Source:   p.URL,
		Persona:  persona,
		Intent:   intent,
		Title:    p.Title,
		H1:       p.H1,
		H2:       h2,
		Body:     p.Text,
		Markdown: p.Markdown,
	}
}

func (a *Analyzer) snapshot(mode core.ContentMode, baseURL string, units []core.ContentUnit) *core.ContentSnapshot {
	res := content.Analyze(units)
	return &core.ContentSnapshot{
		ID:          uuid.NewString(),
		GeneratedAt: a.now().UTC(),
		Mode:        mode,
		BaseURL:     baseURL,
		Units:       res.Units,
		Findings:    res.Findings,
		Personas:    res.Personas,
	}
}

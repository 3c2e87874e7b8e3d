// Package crawl fetches a running site's sitemap and pages and extracts the
// text structure content analysis needs.
package crawl

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrSitemap is returned when the sitemap cannot be fetched or parsed.
var ErrSitemap = errors.New("crawl: sitemap unavailable")

// Defaults.
const (
	DefaultConcurrency = 4
	DefaultTimeout     = 15 * time.Second
	DefaultUserAgent   = "atlas-crawler/1.0"
	DefaultMaxPageSize = 5 << 20
	DefaultMaxPages    = 200
)

// Config configures a Crawler.
type Config struct {
	BaseURL     string
	Concurrency int
	Timeout     time.Duration
	UserAgent   string
	MaxPageSize int64
	MaxPages    int
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Crawler walks a site through its sitemap.
type Crawler struct {
	base   *url.URL
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New validates the base URL and creates a crawler.
func New(cfg Config) (*Crawler, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultMaxPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Crawler{base: base, cfg: cfg, client: cfg.HTTPClient, logger: cfg.Logger}, nil
}

// Result is the outcome of a crawl. Pages keep sitemap order.
type Result struct {
	Pages    []Page
	Warnings []string
}

// Crawl reads the sitemap and fetches every listed page with bounded
// concurrency. A page failure skips that page with a warning; a sitemap
// failure fails the crawl.
func (c *Crawler) Crawl(ctx context.Context) (*Result, error) {
	locs, err := c.Sitemap(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if len(locs) > c.cfg.MaxPages {
		res.Warnings = append(res.Warnings, fmt.Sprintf("sitemap lists %d pages; crawling the first %d", len(locs), c.cfg.MaxPages))
		locs = locs[:c.cfg.MaxPages]
	}

	pages := make([]*Page, len(locs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for i, loc := range locs {
		g.Go(func() error {
			target := c.resolve(loc)
			body, err := c.get(gctx, target)
			if err == nil {
				var p Page
				p, err = ParsePage(target, body)
				if err == nil {
					pages[i] = &p
					return nil
				}
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("page skipped", "url", target, "error", err)
			mu.Lock()
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s skipped: %v", target, err))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range pages {
		if p != nil {
			res.Pages = append(res.Pages, *p)
		}
	}
	c.logger.Debug("crawl finished", "base", c.base.String(), "pages", len(res.Pages), "skipped", len(locs)-len(res.Pages))
	return res, nil
}

// resolve maps a sitemap location onto the crawl base, so a sitemap that
// lists production URLs can be crawled against a local server.
func (c *Crawler) resolve(loc string) string {
	u, err := url.Parse(strings.TrimSpace(loc))
	if err != nil {
		return loc
	}
	target := *c.base
	target.Path = c.base.Path + u.Path
	if target.Path == "" {
		target.Path = "/"
	}
	target.RawQuery = u.RawQuery
	return target.String()
}

type urlSet struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

type sitemapIndex struct {
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

// Sitemap returns the page locations listed in {base}/sitemap.xml. A sitemap
// index is followed one level deep.
func (c *Crawler) Sitemap(ctx context.Context) ([]string, error) {
	root := c.base.String() + "/sitemap.xml"
	body, err := c.get(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSitemap, err)
	}

	locs, children, err := parseSitemap(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSitemap, err)
	}
	for _, child := range children {
		data, err := c.get(ctx, c.resolve(child))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSitemap, child, err)
		}
		more, _, err := parseSitemap(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSitemap, child, err)
		}
		locs = append(locs, more...)
	}

	seen := make(map[string]bool, len(locs))
	out := locs[:0]
	for _, l := range locs {
		if l = strings.TrimSpace(l); l != "" && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out, nil
}

// parseSitemap decodes either a urlset or a sitemapindex document.
func parseSitemap(data []byte) (locs, children []string, err error) {
	var probe struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("parse sitemap: %w", err)
	}
	switch probe.XMLName.Local {
	case "urlset":
		var set urlSet
		if err := xml.Unmarshal(data, &set); err != nil {
			return nil, nil, fmt.Errorf("parse urlset: %w", err)
		}
		for _, u := range set.URLs {
			locs = append(locs, u.Loc)
		}
	case "sitemapindex":
		var idx sitemapIndex
		if err := xml.Unmarshal(data, &idx); err != nil {
			return nil, nil, fmt.Errorf("parse sitemapindex: %w", err)
		}
		for _, s := range idx.Sitemaps {
			children = append(children, s.Loc)
		}
	default:
		return nil, nil, fmt.Errorf("unexpected sitemap root element %q", probe.XMLName.Local)
	}
	return locs, children, nil
}

func (c *Crawler) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxPageSize {
		return nil, fmt.Errorf("content too large (exceeds %d bytes)", c.cfg.MaxPageSize)
	}
	return body, nil
}

package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/leapstack-labs/atlas/pkg/core"
)

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// handleRobots renders robots.txt from the configured disallow rules. A rule
// that would hide an indexable route is dropped.
func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	var routes []core.Route
	if snap, _, err := s.svc.SEO(r.Context()); err != nil {
		s.logger.Warn("robots.txt rendered without routes", "error", err)
	} else {
		routes = snap.Routes
	}

	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	for _, rule := range s.cfg.RobotsDisallow {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		if blocked := blockedRoute(rule, routes); blocked != "" {
			s.logger.Warn("robots rule would hide an indexable route; skipped", "rule", rule, "route", blocked)
			continue
		}
		fmt.Fprintf(&b, "Disallow: %s\n", rule)
	}
	if base := strings.TrimRight(s.cfg.SiteURL, "/"); base != "" {
		fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", base)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(b.String()))
}

func blockedRoute(rule string, routes []core.Route) string {
	for _, rt := range routes {
		if rt.IsIndexable() && strings.HasPrefix(rt.Path, rule) {
			return rt.Path
		}
	}
	return ""
}

// handleSitemap lists every indexable route of the current SEO snapshot.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	snap, _, err := s.svc.SEO(r.Context())
	if err != nil {
		s.logger.Warn("sitemap unavailable", "error", err)
		http.Error(w, "sitemap unavailable", errorStatus(err))
		return
	}

	base := strings.TrimRight(s.cfg.SiteURL, "/")
	if base == "" {
		base = strings.TrimRight(snap.SiteURL, "/")
	}
	set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, rt := range snap.Routes {
		if !rt.IsIndexable() {
			continue
		}
		path := rt.Path
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: base + path})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		http.Error(w, "encode sitemap", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", SnapshotCacheControl)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

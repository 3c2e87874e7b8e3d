package seo

import (
	"io/fs"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/leapstack-labs/atlas/pkg/gate"
)

// Source files, relative to the site root.
const (
	RoutesFile         = "lib/seo/routes.ts"
	SitemapFile        = "app/sitemap.ts"
	RobotsFile         = "app/robots.ts"
	StructuredDataFile = "lib/seo/structured-data.ts"
	WorkflowGlob       = ".github/workflows/*.{yml,yaml}"
)

// SourceFiles lists the individual files the builder reads.
func SourceFiles() []string {
	return []string{RoutesFile, SitemapFile, RobotsFile, StructuredDataFile}
}

// RawRoute is a route object as written in routes.ts.
type RawRoute struct {
	Path          string
	Title         string
	Description   string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGImage       string
	TwitterCard   string
	Plane         string
	NoIndex       bool
}

var (
	interpolationRe = regexp.MustCompile(`\$\{[^}]*\}`)
	objectRe        = regexp.MustCompile(`\{([^{}]*)\}`)
	propRe          = regexp.MustCompile("(\\w+)\\s*:\\s*(\"(?:[^\"\\\\]|\\\\.)*\"|'(?:[^'\\\\]|\\\\.)*'|`[^`]*`|true|false)")
	pathLiteralRe   = regexp.MustCompile("[\"'](/[^\"'\\s]*)[\"']|`\\$\\{[^}]*\\}(/[^`\\s]*)?`")
	disallowRe      = regexp.MustCompile(`disallow\s*:\s*(\[[^\]]*\]|"[^"]*"|'[^']*')`)
	stringLitRe     = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
	sitemapRefRe    = regexp.MustCompile("sitemap\\s*:\\s*[\"'`]([^\"'`]*)[\"'`]")
	schemaTypeRe    = regexp.MustCompile(`["']@type["']\s*:\s*["']([^"']+)["']`)
	seoLineRe       = regexp.MustCompile(`(?i)^\s*-?\s*(run|name)\s*:.*\bseo`)
)

// expandBase replaces every template interpolation with the site URL, so
// `${SITE_URL}/about` reads as an absolute URL.
func expandBase(src, siteURL string) string {
	return interpolationRe.ReplaceAllString(src, strings.TrimRight(siteURL, "/"))
}

func unquoteJS(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '"', '\'', '`':
			s = s[1 : len(s)-1]
		}
	}
	return strings.NewReplacer(`\"`, `"`, `\'`, `'`, `\\`, `\`).Replace(s)
}

// ExtractRoutes reads route objects: every brace-delimited object literal
// with a path property.
func ExtractRoutes(src, siteURL string) []RawRoute {
	src = expandBase(src, siteURL)

	var routes []RawRoute
	for _, m := range objectRe.FindAllStringSubmatch(src, -1) {
		props := make(map[string]string)
		for _, p := range propRe.FindAllStringSubmatch(m[1], -1) {
			props[p[1]] = p[2]
		}
		raw, ok := props["path"]
		if !ok {
			continue
		}
		r := RawRoute{
			Path:          unquoteJS(raw),
			Title:         unquoteJS(props["title"]),
			Description:   unquoteJS(props["description"]),
			Canonical:     unquoteJS(props["canonical"]),
			OGTitle:       unquoteJS(props["ogTitle"]),
			OGDescription: unquoteJS(props["ogDescription"]),
			OGImage:       unquoteJS(props["ogImage"]),
			TwitterCard:   unquoteJS(props["twitterCard"]),
			Plane:         unquoteJS(props["plane"]),
		}
		switch v := props["index"]; v {
		case "false":
			r.NoIndex = true
		case "":
		default:
			r.NoIndex = strings.EqualFold(unquoteJS(v), "noindex")
		}
		if v, ok := props["noindex"]; ok && v == "true" {
			r.NoIndex = true
		}
		routes = append(routes, r)
	}
	return routes
}

// ExtractSitemapPaths returns unique path literals in order of appearance.
// `${base}` alone denotes the root path.
func ExtractSitemapPaths(src string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range pathLiteralRe.FindAllStringSubmatch(src, -1) {
		p := m[1]
		if p == "" {
			p = m[2]
		}
		if p == "" {
			p = "/"
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// ExtractRobots reads disallow rules and the sitemap reference.
func ExtractRobots(src, siteURL string) gate.Robots {
	src = expandBase(src, siteURL)
	r := gate.Robots{Present: true}
	for _, m := range disallowRe.FindAllStringSubmatch(src, -1) {
		for _, lit := range stringLitRe.FindAllStringSubmatch(m[1], -1) {
			v := lit[1]
			if v == "" {
				v = lit[2]
			}
			r.Disallow = append(r.Disallow, v)
		}
	}
	if m := sitemapRefRe.FindStringSubmatch(src); m != nil {
		r.Sitemap = m[1]
	}
	return r
}

// ExtractStructuredData returns unique schema.org types in order.
func ExtractStructuredData(src string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range schemaTypeRe.FindAllStringSubmatch(src, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// ScanWorkflows finds workflow files and flags those that mention an SEO
// audit on a run or name line.
func ScanWorkflows(fsys fs.FS) ([]gate.Workflow, error) {
	paths, err := doublestar.Glob(fsys, WorkflowGlob)
	if err != nil {
		return nil, err
	}
	out := make([]gate.Workflow, 0, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		w := gate.Workflow{Path: p}
		for _, line := range strings.Split(string(data), "\n") {
			if seoLineRe.MatchString(line) {
				w.SEOAudit = true
				break
			}
		}
		out = append(out, w)
	}
	return out, nil
}

package gate

import (
	"strings"

	"github.com/leapstack-labs/atlas/pkg/core"
)

// Input is everything gates may inspect. It is built once per snapshot and
// must not be modified by checks.
type Input struct {
	// SiteURL is the canonical origin, e.g. https://example.com.
	SiteURL        string
	Routes         []core.Route
	Sitemap        Sitemap
	Robots         Robots
	StructuredData []string
	Workflows      []Workflow
	// ContentFindings are the static catalog findings.
	ContentFindings []core.Finding
}

// Sitemap is the extracted sitemap source.
type Sitemap struct {
	Present bool
	Paths   []string
}

// Robots is the extracted robots source.
type Robots struct {
	Present  bool
	Disallow []string
	Sitemap  string
}

// Workflow is a CI workflow file and whether it runs an SEO audit.
type Workflow struct {
	Path     string
	SEOAudit bool
}

// IndexableRoutes returns the routes that allow indexing.
func (in *Input) IndexableRoutes() []core.Route {
	var out []core.Route
	for _, r := range in.Routes {
		if r.IsIndexable() {
			out = append(out, r)
		}
	}
	return out
}

// Disallowed reports whether robots rules block path. An empty Disallow rule
// allows everything.
func (r Robots) Disallowed(path string) bool {
	for _, rule := range r.Disallow {
		if rule == "" {
			continue
		}
		if strings.HasPrefix(path, rule) {
			return true
		}
	}
	return false
}

package seo

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/atlas/pkg/core"
)

// Recommended lengths, in characters.
const (
	TitleMin       = 10
	TitleMax       = 60
	DescriptionMin = 50
	DescriptionMax = 160
)

func lengthField(value, name string, minLen, maxLen int) core.Field {
	if strings.TrimSpace(value) == "" {
		return core.Missing("add a " + name)
	}
	if n := utf8.RuneCountInString(value); n < minLen || n > maxLen {
		return core.Warn(value, fmt.Sprintf("%d characters, recommended %d-%d", n, minLen, maxLen))
	}
	return core.OK(value)
}

func presenceField(value, name string) core.Field {
	if strings.TrimSpace(value) == "" {
		return core.Missing("add " + name)
	}
	return core.OK(value)
}

func canonicalField(value, routePath string) core.Field {
	if strings.TrimSpace(value) == "" {
		return core.Missing("add an absolute canonical URL")
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return core.Warn(value, "canonical should be an absolute https URL")
	}
	if trimSlash(u.Path) != trimSlash(routePath) {
		return core.Warn(value, "canonical path differs from route path "+routePath)
	}
	return core.OK(value)
}

func twitterField(value string) core.Field {
	switch value {
	case "summary", "summary_large_image":
		return core.OK(value)
	case "":
		return core.Warn(value, "set twitterCard to summary or summary_large_image")
	default:
		return core.Warn(value, "unknown card type; use summary or summary_large_image")
	}
}

func trimSlash(p string) string {
	if p = strings.TrimRight(p, "/"); p == "" {
		return "/"
	}
	return p
}

// EvaluateRoute builds the field triples of a route. inSitemap reports
// whether the route path appears in the sitemap source.
func EvaluateRoute(raw RawRoute, inSitemap bool) core.Route {
	r := core.Route{
		Path:          raw.Path,
		Plane:         core.SEOPlaneDiscovery,
		Title:         lengthField(raw.Title, "title", TitleMin, TitleMax),
		Description:   lengthField(raw.Description, "description", DescriptionMin, DescriptionMax),
		Canonical:     canonicalField(raw.Canonical, raw.Path),
		OGTitle:       presenceField(raw.OGTitle, "ogTitle"),
		OGDescription: presenceField(raw.OGDescription, "ogDescription"),
		OGImage:       presenceField(raw.OGImage, "ogImage"),
		TwitterCard:   twitterField(raw.TwitterCard),
		Indexable:     core.OK("index"),
	}
	switch core.SEOPlane(raw.Plane) {
	case core.SEOPlaneDiscovery, core.SEOPlaneRelevance, core.SEOPlanePerformance:
		r.Plane = core.SEOPlane(raw.Plane)
	}
	if raw.NoIndex {
		r.Indexable = core.OK("noindex")
	}

	switch {
	case r.IsIndexable() && !inSitemap:
		r.InSitemap = core.Warn("no", "indexable route missing from sitemap")
	case !r.IsIndexable() && inSitemap:
		r.InSitemap = core.Warn("yes", "noindex route listed in sitemap")
	case inSitemap:
		r.InSitemap = core.OK("yes")
	default:
		r.InSitemap = core.OK("no")
	}
	return r
}

package gates

import (
	"fmt"

	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/leapstack-labs/atlas/pkg/gate"
)

func init() {
	gate.Register(gate.Def{
		ID:          "G1",
		Name:        "sitemap-robots-coherence",
		Plane:       core.SEOPlaneDiscovery,
		Description: "robots.ts and sitemap.ts agree with the route table",
		Check:       checkSitemapRobots,

		Rationale: `Crawlers discover pages through the sitemap and obey robots rules. A sitemap entry
that robots disallows wastes crawl budget, and an indexable route missing from the sitemap may
never be discovered.`,
		Fix: "Reference the sitemap from robots.ts and keep sitemap.ts in sync with indexable routes.",
	})
}

func checkSitemapRobots(in *gate.Input) gate.Outcome {
	out := gate.Pass()

	if !in.Robots.Present {
		out.Verdict = core.VerdictFail
		out.Details = append(out.Details, "robots source not found")
	} else if in.Robots.Sitemap == "" {
		out.Verdict = core.VerdictFail
		out.Details = append(out.Details, "robots does not reference a sitemap")
	}

	inSitemap := make(map[string]bool, len(in.Sitemap.Paths))
	for _, p := range in.Sitemap.Paths {
		p = normPath(p)
		inSitemap[p] = true
		if in.Robots.Disallowed(p) {
			out.Verdict = core.VerdictFail
			out.Details = append(out.Details, fmt.Sprintf("sitemap path %s is disallowed by robots", p))
		}
	}

	for _, r := range in.Routes {
		p := normPath(r.Path)
		switch {
		case r.IsIndexable() && !inSitemap[p]:
			out.Verdict = out.Verdict.Worse(core.VerdictWarn)
			out.Details = append(out.Details, fmt.Sprintf("indexable route %s missing from sitemap", p))
		case !r.IsIndexable() && inSitemap[p]:
			out.Verdict = out.Verdict.Worse(core.VerdictWarn)
			out.Details = append(out.Details, fmt.Sprintf("noindex route %s listed in sitemap", p))
		}
	}

	return out
}

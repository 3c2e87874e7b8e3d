package gates

import (
	"fmt"
	"net/url"

	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/leapstack-labs/atlas/pkg/gate"
)

func init() {
	gate.Register(gate.Def{
		ID:          "G3",
		Name:        "canonical-consistency",
		Plane:       core.SEOPlaneDiscovery,
		Description: "Canonical URLs are absolute, https, on the site host and match the route",
		Check:       checkCanonical,

		Rationale: `A canonical pointing at another path tells search engines to index that path
instead. Canonicals on a different host or over http split ranking signals.`,
		Fix: "Set canonical to the https site URL joined with the route path.",
	})
}

func checkCanonical(in *gate.Input) gate.Outcome {
	out := gate.Pass()

	var siteHost string
	if u, err := url.Parse(in.SiteURL); err == nil {
		siteHost = u.Host
	}

	for _, r := range in.IndexableRoutes() {
		value := r.Canonical.Value
		if r.Canonical.Status == core.FieldMissing || value == "" {
			out.Verdict = core.VerdictFail
			out.Details = append(out.Details, fmt.Sprintf("%s: canonical missing", r.Path))
			continue
		}

		if got := urlPath(value); got != normPath(r.Path) {
			out.Verdict = core.VerdictFail
			out.Details = append(out.Details, fmt.Sprintf("%s: canonical points at %s", r.Path, got))
			continue
		}

		u, err := url.Parse(value)
		if err != nil || u.Scheme != "https" {
			out.Verdict = out.Verdict.Worse(core.VerdictWarn)
			out.Details = append(out.Details, fmt.Sprintf("%s: canonical is not an absolute https URL", r.Path))
			continue
		}
		if siteHost != "" && u.Host != siteHost {
			out.Verdict = out.Verdict.Worse(core.VerdictWarn)
			out.Details = append(out.Details, fmt.Sprintf("%s: canonical host %s differs from %s", r.Path, u.Host, siteHost))
		}
	}

	return out
}

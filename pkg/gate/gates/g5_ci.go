package gates

import (
	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/leapstack-labs/atlas/pkg/gate"
)

func init() {
	gate.Register(gate.Def{
		ID:          "G5",
		Name:        "ci-integration",
		Plane:       core.SEOPlanePerformance,
		Description: "A CI workflow runs an SEO audit",
		Check:       checkCIIntegration,

		Rationale: "Metadata regressions are cheapest to catch on the pull request that introduces them.",
		Fix:       "Add an SEO audit step (for example a Lighthouse run) to a workflow under .github/workflows.",
	})
}

func checkCIIntegration(in *gate.Input) gate.Outcome {
	if len(in.Workflows) == 0 {
		return gate.Outcome{
			Verdict: core.VerdictFail,
			Details: []string{"no CI workflows found"},
		}
	}
	for _, w := range in.Workflows {
		if w.SEOAudit {
			return gate.Outcome{
				Verdict: core.VerdictPass,
				Details: []string{"SEO audit in " + w.Path},
			}
		}
	}
	return gate.Outcome{
		Verdict: core.VerdictWarn,
		Details: []string{"no workflow references an SEO audit"},
	}
}

package gates

import (
	"fmt"

	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/leapstack-labs/atlas/pkg/gate"
)

func init() {
	gate.Register(gate.Def{
		ID:          "G4",
		Name:        "content-richness",
		Plane:       core.SEOPlaneRelevance,
		Description: "Site copy is substantial, distinct, and described with structured data",
		Check:       checkContentRichness,

		Rationale: `Thin pages rarely rank, and pages that repeat each other's headings compete for
the same queries. Structured data lets search engines build rich results.`,
		Fix: "Expand thin sections, merge or differentiate competing pages, and declare schema.org types.",
	})
}

func checkContentRichness(in *gate.Input) gate.Outcome {
	out := gate.Pass()

	counts := make(map[core.Priority]int)
	for _, f := range in.ContentFindings {
		counts[f.Priority]++
		if f.Kind == core.FindingThin && f.Priority == core.PriorityP0 {
			out.Verdict = core.VerdictFail
		} else {
			out.Verdict = out.Verdict.Worse(core.VerdictWarn)
		}
	}
	for _, p := range []core.Priority{core.PriorityP0, core.PriorityP1, core.PriorityP2} {
		if counts[p] > 0 {
			out.Details = append(out.Details, fmt.Sprintf("%d %s content findings", counts[p], p))
		}
	}
	if len(in.StructuredData) == 0 {
		out.Verdict = out.Verdict.Worse(core.VerdictWarn)
		out.Details = append(out.Details, "no structured data types declared")
	}

	return out
}

package gates

import (
	"fmt"

	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/leapstack-labs/atlas/pkg/gate"
)

func init() {
	gate.Register(gate.Def{
		ID:          "G2",
		Name:        "minimal-metadata",
		Plane:       core.SEOPlaneRelevance,
		Description: "Indexable routes carry a title, description and Open Graph fields",
		Check:       checkMinimalMetadata,

		Rationale: `Title and description drive the search snippet. Open Graph fields control link
previews when a page is shared. Lengths outside the recommended range are truncated or ignored.`,
		Fix: "Fill title, description, ogTitle, ogDescription and ogImage in routes.ts.",
	})
}

func checkMinimalMetadata(in *gate.Input) gate.Outcome {
	out := gate.Pass()

	for _, r := range in.IndexableRoutes() {
		for _, f := range []struct {
			name  string
			field core.Field
		}{
			{"title", r.Title},
			{"description", r.Description},
		} {
			switch f.field.Status {
			case core.FieldMissing:
				out.Verdict = core.VerdictFail
				out.Details = append(out.Details, fmt.Sprintf("%s: %s missing", r.Path, f.name))
			case core.FieldWarn:
				out.Verdict = out.Verdict.Worse(core.VerdictWarn)
				out.Details = append(out.Details, fmt.Sprintf("%s: %s %s", r.Path, f.name, f.field.Hint))
			}
		}

		for _, f := range []struct {
			name  string
			field core.Field
		}{
			{"ogTitle", r.OGTitle},
			{"ogDescription", r.OGDescription},
			{"ogImage", r.OGImage},
		} {
			if f.field.Status == core.FieldMissing {
				out.Verdict = out.Verdict.Worse(core.VerdictWarn)
				out.Details = append(out.Details, fmt.Sprintf("%s: %s missing", r.Path, f.name))
			}
		}
	}

	return out
}

package registry

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/atlas/pkg/core"
)

// Keyword prefixes are anchored at word starts so "design" does not read as
// "sign". Trust is checked before evidence.
var (
	trustRe    = regexp.MustCompile(`\b(?:sign|receipt|auth|identit|key|crypt|tamper|attest|secret)`)
	evidenceRe = regexp.MustCompile(`\b(?:log|audit|evidence|trace|record|ledger|retention|report)`)
)

// ClassifyPlane assigns a governance plane from the description and
// mechanism text of an entry.
func ClassifyPlane(description, mechanism string) core.Plane {
	text := strings.ToLower(description + " " + mechanism)
	switch {
	case trustRe.MatchString(text):
		return core.PlaneTrust
	case evidenceRe.MatchString(text):
		return core.PlaneEvidence
	default:
		return core.PlaneDecision
	}
}

// ClassifyCoverage derives coverage from lifecycle status and resolved refs.
// Only active entries can be enforced; an active entry without refs, or with
// any missing ref, is partial.
func ClassifyCoverage(status core.Lifecycle, refs []core.CodeRef) core.Coverage {
	if status != core.LifecycleActive {
		return core.CoverageDeclared
	}
	if len(refs) == 0 {
		return core.CoveragePartial
	}
	for _, r := range refs {
		if !r.Exists {
			return core.CoveragePartial
		}
	}
	return core.CoverageEnforced
}

// Classify resolves refs against tree and turns raw entries into classified
// enforcements. A nil tree marks every ref as missing.
func Classify(entries []Entry, tree *Tree) []core.Enforcement {
	out := make([]core.Enforcement, 0, len(entries))
	for _, e := range entries {
		refs := make([]core.CodeRef, 0, len(e.CodeRefs))
		for _, p := range e.CodeRefs {
			refs = append(refs, core.CodeRef{Path: p, Exists: tree.Resolve(p)})
		}
		status := core.ParseLifecycle(e.Status)
		out = append(out, core.Enforcement{
			ID:          e.ID,
			Description: e.Description,
			Status:      status,
			Mechanism:   e.Mechanism,
			ADRs:        append([]string(nil), e.ADRs...),
			CodeRefs:    refs,
			Coverage:    ClassifyCoverage(status, refs),
			Plane:       ClassifyPlane(e.Description, e.Mechanism),
		})
	}
	return out
}

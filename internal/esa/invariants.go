package esa

import (
	"slices"

	"github.com/leapstack-labs/atlas/pkg/core"
)

// DefaultInvariants returns the governance invariants tracked by the
// snapshot. The returned slice is freshly allocated.
func DefaultInvariants() []core.Invariant {
	return []core.Invariant{
		{
			ID:            "INV-01",
			Label:         "Receipts are signed before they are persisted",
			ADR:           "ADR-0003",
			Plane:         core.PlaneTrust,
			RequiredGates: []string{"verify-signatures"},
		},
		{
			ID:            "INV-02",
			Label:         "Every decision references an ADR",
			ADR:           "ADR-0007",
			Plane:         core.PlaneDecision,
			RequiredGates: []string{"adr-lint"},
		},
		{
			ID:            "INV-03",
			Label:         "Evidence records are append-only",
			ADR:           "ADR-0011",
			Plane:         core.PlaneEvidence,
			RequiredGates: []string{"evidence-immutability"},
		},
		{
			ID:            "INV-04",
			Label:         "Enforcement registry matches the code tree",
			ADR:           "ADR-0014",
			Plane:         core.PlaneDecision,
			RequiredGates: []string{"registry-drift", "enforcement-coverage"},
		},
	}
}

// EvaluateInvariants fills PresentGates and Coverage from the gates found in
// CI: all required gates present is enforced, some is partial, none is gap.
func EvaluateInvariants(invs []core.Invariant, gates []string) []core.Invariant {
	out := make([]core.Invariant, len(invs))
	for i, inv := range invs {
		inv.PresentGates = []string{}
		for _, g := range inv.RequiredGates {
			if slices.Contains(gates, g) {
				inv.PresentGates = append(inv.PresentGates, g)
			}
		}
		switch {
		case len(inv.RequiredGates) > 0 && len(inv.PresentGates) == len(inv.RequiredGates):
			inv.Coverage = core.CoverageEnforced
		case len(inv.PresentGates) > 0:
			inv.Coverage = core.CoveragePartial
		default:
			inv.Coverage = core.CoverageGap
		}
		out[i] = inv
	}
	return out
}

package core

import "strings"

// =============================================================================
// Planes
// =============================================================================

// Plane is the governance grouping used by the ESA dashboards.
type Plane string

// Governance planes.
const (
	PlaneTrust    Plane = "trust"
	PlaneDecision Plane = "decision"
	PlaneEvidence Plane = "evidence"
)

// Planes lists the governance planes in display order.
func Planes() []Plane {
	return []Plane{PlaneTrust, PlaneDecision, PlaneEvidence}
}

// SEOPlane is the grouping used by the SEO dashboards.
type SEOPlane string

// SEO planes.
const (
	SEOPlaneDiscovery   SEOPlane = "discovery"
	SEOPlaneRelevance   SEOPlane = "relevance"
	SEOPlanePerformance SEOPlane = "performance"
)

// =============================================================================
// Lifecycle
// =============================================================================

// Lifecycle is the declared status of an enforcement entry.
type Lifecycle string

// Lifecycle values.
const (
	LifecycleActive     Lifecycle = "active"
	LifecycleProposed   Lifecycle = "proposed"
	LifecycleDeprecated Lifecycle = "deprecated"
	LifecycleUnknown    Lifecycle = "unknown"
)

// ParseLifecycle converts a registry status string to a Lifecycle.
// Unrecognized values map to LifecycleUnknown.
func ParseLifecycle(s string) Lifecycle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return LifecycleActive
	case "proposed":
		return LifecycleProposed
	case "deprecated":
		return LifecycleDeprecated
	default:
		return LifecycleUnknown
	}
}

// =============================================================================
// Coverage
// =============================================================================

// Coverage describes how verifiably a rule is automated.
type Coverage string

// Coverage values, strongest first.
const (
	CoverageEnforced Coverage = "enforced"
	CoveragePartial  Coverage = "partial"
	CoverageDeclared Coverage = "declared"
	CoverageGap      Coverage = "gap"
)

// Coverages lists the coverage values in display order.
func Coverages() []Coverage {
	return []Coverage{CoverageEnforced, CoveragePartial, CoverageDeclared, CoverageGap}
}

// =============================================================================
// Verdict
// =============================================================================

// Verdict is the outcome of a gate.
type Verdict string

// Verdict values.
const (
	VerdictPass Verdict = "pass"
	VerdictWarn Verdict = "warn"
	VerdictFail Verdict = "fail"
)

// Points returns the score contribution of a verdict.
func (v Verdict) Points() int {
	switch v {
	case VerdictPass:
		return 20
	case VerdictWarn:
		return 10
	default:
		return 0
	}
}

// Worse returns the more severe of two verdicts.
func (v Verdict) Worse(other Verdict) Verdict {
	if v.rank() >= other.rank() {
		return v
	}
	return other
}

func (v Verdict) rank() int {
	switch v {
	case VerdictFail:
		return 2
	case VerdictWarn:
		return 1
	default:
		return 0
	}
}

// =============================================================================
// Priority
// =============================================================================

// Priority ranks content findings. P0 is the most urgent.
type Priority string

// Priority values.
const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
)

// Less reports whether p is more urgent than other.
func (p Priority) Less(other Priority) bool {
	return p < other
}

// =============================================================================
// Field state
// =============================================================================

// FieldState is the status part of a Field triple.
type FieldState string

// Field states.
const (
	FieldOK      FieldState = "ok"
	FieldWarn    FieldState = "warn"
	FieldMissing FieldState = "missing"
)

// Package core defines the shared language of the Atlas reporting system.
//
// This package contains:
//   - Taxonomy enums (Plane, SEOPlane, Lifecycle, Coverage, Verdict, Priority)
//   - Governance entities (Enforcement, CodeRef, Invariant)
//   - SEO entities (Route, Field, GateResult)
//   - Content entities (ContentUnit, Finding, PersonaCoverage)
//   - Snapshot aggregates (ESASnapshot, SEOSnapshot, ContentSnapshot)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core

// Package registry parses the enforcement registry and classifies its
// entries into governance planes and coverage levels.
//
// # Registry Format
//
// The registry is a YAML document with a top-level enforcements list:
//
//	enforcements:
//	  - id: ENF-001
//	    description: Receipts are signed with the service key
//	    status: active
//	    mechanism: ci-gate
//	    adrs: [ADR-0003]
//	    code_refs:
//	      - src/receipts/sign.ts
//	      - scripts/verify-signatures.mjs
//
// Parse decodes the document strictly first and falls back to line-oriented
// regex extraction when the decoder rejects it. Registries are hand-edited and
// frequently carry merge markers, tabs, or unquoted colons that break a strict
// decoder while the individual fields remain readable.
//
// # Classification
//
// ClassifyPlane assigns a plane by keyword matching on description and
// mechanism. ClassifyCoverage derives coverage from lifecycle status and the
// existence of the referenced code paths in a Tree.
package registry

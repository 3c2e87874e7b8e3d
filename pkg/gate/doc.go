// Package gate provides the SEO gate registry and the analyzer that runs
// registered gates against a site's extracted SEO inputs.
//
// Gates register themselves from init functions in the gates subpackage:
//
//	import _ "github.com/leapstack-labs/atlas/pkg/gate/gates"
//
// Each gate returns a pass/warn/fail verdict with details. The analyzer
// skips disabled gates, orders results by gate ID, and computes a 0-100 health
// score from the verdict points of the gates that ran.
package gate

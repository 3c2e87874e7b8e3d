package esa

import "github.com/leapstack-labs/atlas/pkg/core"

// Summarize counts enforcements by coverage, plane and status. Every known
// category is present in the maps, with zero counts where nothing matched.
func Summarize(enfs []core.Enforcement) core.ESASummary {
	s := core.ESASummary{
		Total:      len(enfs),
		ByCoverage: make(map[core.Coverage]int),
		ByPlane:    make(map[core.Plane]int),
		ByStatus:   make(map[core.Lifecycle]int),
	}
	for _, c := range core.Coverages() {
		s.ByCoverage[c] = 0
	}
	for _, p := range core.Planes() {
		s.ByPlane[p] = 0
	}
	for _, l := range []core.Lifecycle{core.LifecycleActive, core.LifecycleProposed, core.LifecycleDeprecated} {
		s.ByStatus[l] = 0
	}
	for _, e := range enfs {
		s.ByCoverage[e.Coverage]++
		s.ByPlane[e.Plane]++
		s.ByStatus[e.Status]++
	}
	return s
}

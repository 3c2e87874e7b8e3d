package snapshot

import "github.com/leapstack-labs/atlas/pkg/core"

// ESAHeader summarizes an ESA snapshot. Its score is the share of
// enforcements that are fully enforced.
func ESAHeader(s *core.ESASnapshot) core.SnapshotHeader {
	score := 0
	if s.Summary.Total > 0 {
		score = s.Summary.ByCoverage[core.CoverageEnforced] * 100 / s.Summary.Total
	}
	return core.SnapshotHeader{
		ID:          s.ID,
		Kind:        core.KindESA,
		GeneratedAt: s.GeneratedAt,
		Score:       score,
		Items:       len(s.Enforcements),
		Warnings:    len(s.Warnings),
	}
}

// SEOHeader summarizes an SEO snapshot with its gate score.
func SEOHeader(s *core.SEOSnapshot) core.SnapshotHeader {
	return core.SnapshotHeader{
		ID:          s.ID,
		Kind:        core.KindSEO,
		GeneratedAt: s.GeneratedAt,
		Score:       s.Score,
		Items:       len(s.Routes),
		Warnings:    len(s.Warnings),
	}
}

// ContentHeader summarizes a content snapshot. Its score is the mean persona
// coverage score.
func ContentHeader(s *core.ContentSnapshot) core.SnapshotHeader {
	score := 0
	if n := len(s.Personas); n > 0 {
		total := 0
		for _, p := range s.Personas {
			total += p.Score
		}
		score = total / n
	}
	return core.SnapshotHeader{
		ID:          s.ID,
		Kind:        core.KindContent,
		GeneratedAt: s.GeneratedAt,
		Score:       score,
		Items:       len(s.Units),
		Warnings:    len(s.Warnings),
	}
}

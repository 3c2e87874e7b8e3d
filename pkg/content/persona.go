package content

import (
	"cmp"
	"slices"

	"github.com/leapstack-labs/atlas/pkg/core"
)

// DefaultPersona is assigned to units without a persona.
const DefaultPersona = "general"

// Coverage summarizes units and findings per persona, sorted by persona name.
// The score is the share of known intents the persona has content for.
func Coverage(units []core.ContentUnit, findings []core.Finding) []core.PersonaCoverage {
	known := core.Intents()
	byPersona := make(map[string]*core.PersonaCoverage)
	unitPersona := make(map[string]string, len(units))
	covered := make(map[string]map[string]bool)

	for _, u := range units {
		persona := u.Persona
		if persona == "" {
			persona = DefaultPersona
		}
		unitPersona[u.ID] = persona
		pc, ok := byPersona[persona]
		if !ok {
			pc = &core.PersonaCoverage{Persona: persona}
			byPersona[persona] = pc
			covered[persona] = make(map[string]bool)
		}
		pc.Units++
		pc.Words += u.WordCount
		if u.Intent != "" {
			covered[persona][u.Intent] = true
		}
	}

	for _, f := range findings {
		seen := make(map[string]bool)
		for _, id := range f.Units {
			p, ok := unitPersona[id]
			if !ok || seen[p] {
				continue
			}
			seen[p] = true
			byPersona[p].Findings++
		}
	}

	out := make([]core.PersonaCoverage, 0, len(byPersona))
	for persona, pc := range byPersona {
		pc.Intents = []string{}
		pc.MissingIntents = []string{}
		for _, intent := range known {
			if covered[persona][intent] {
				pc.Intents = append(pc.Intents, intent)
			} else {
				pc.MissingIntents = append(pc.MissingIntents, intent)
			}
		}
		pc.Score = len(pc.Intents) * 100 / len(known)
		out = append(out, *pc)
	}
	slices.SortFunc(out, func(a, b core.PersonaCoverage) int {
		return cmp.Compare(a.Persona, b.Persona)
	})
	return out
}

package content

import "github.com/leapstack-labs/atlas/pkg/core"

// Prepare fills WordCount and Signature from the unit body.
func Prepare(u core.ContentUnit) core.ContentUnit {
	u.WordCount = WordCount(u.Body)
	u.Signature = Signature(u.Body)
	if u.Persona == "" {
		u.Persona = DefaultPersona
	}
	return u
}

// Result bundles the output of Analyze.
type Result struct {
	Units    []core.ContentUnit
	Findings []core.Finding
	Personas []core.PersonaCoverage
}

// Analyze prepares units and runs every detector.
func Analyze(units []core.ContentUnit) Result {
	prepared := make([]core.ContentUnit, len(units))
	for i, u := range units {
		prepared[i] = Prepare(u)
	}

	findings := DetectThin(prepared)
	findings = append(findings, DetectCannibalization(prepared)...)
	SortFindings(findings)
	if findings == nil {
		findings = []core.Finding{}
	}

	return Result{
		Units:    prepared,
		Findings: findings,
		Personas: Coverage(prepared, findings),
	}
}

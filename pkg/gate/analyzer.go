package gate

import (
	"github.com/leapstack-labs/atlas/pkg/core"
)

// Analyzer runs registered gates against an Input.
type Analyzer struct {
	config        *AnalyzerConfig
	disabledGates map[string]bool
}

// AnalyzerConfig holds configuration for the analyzer.
type AnalyzerConfig struct {
	// DisabledGates contains gate IDs to skip
	DisabledGates map[string]bool
}

// NewAnalyzerConfig creates a default configuration.
func NewAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		DisabledGates: make(map[string]bool),
	}
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *AnalyzerConfig) *Analyzer {
	if config == nil {
		config = NewAnalyzerConfig()
	}
	if config.DisabledGates == nil {
		config.DisabledGates = make(map[string]bool)
	}
	return &Analyzer{
		config:        config,
		disabledGates: config.DisabledGates,
	}
}

// Report is the result of running the analyzer.
type Report struct {
	Gates []core.GateResult
	Score int
}

// Analyze runs all enabled gates. The score is the sum of verdict points
// normalized to 0-100 over the gates that ran; it is 0 when none ran.
func (a *Analyzer) Analyze(in *Input) Report {
	if in == nil {
		in = &Input{}
	}

	var results []core.GateResult
	points := 0
	for _, def := range GetAll() {
		if a.isDisabled(def.ID) {
			continue
		}
		out := def.Check(in)
		results = append(results, core.GateResult{
			ID:          def.ID,
			Name:        def.Name,
			Plane:       def.Plane,
			Description: def.Description,
			Verdict:     out.Verdict,
			Details:     out.Details,
		})
		points += out.Verdict.Points()
	}

	report := Report{Gates: results}
	if ceiling := len(results) * core.VerdictPass.Points(); ceiling > 0 {
		report.Score = points * 100 / ceiling
	}
	return report
}

func (a *Analyzer) isDisabled(id string) bool {
	return a.disabledGates[id]
}

// Disable disables a gate by ID.
func (a *Analyzer) Disable(id string) {
	a.disabledGates[id] = true
}

// Enable enables a previously disabled gate.
func (a *Analyzer) Enable(id string) {
	delete(a.disabledGates, id)
}

package gate

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/atlas/pkg/core"
)

// globalRegistry is the single global registry for SEO gates.
var globalRegistry = &Registry{
	gates: make(map[string]Def),
}

// Registry stores registered gates for discovery.
type Registry struct {
	mu    sync.RWMutex
	gates map[string]Def // keyed by ID
}

// Def is a gate definition.
type Def struct {
	ID          string        // Unique identifier, e.g., "G1"
	Name        string        // Human-readable name, e.g., "sitemap-robots-coherence"
	Plane       core.SEOPlane // discovery, relevance or performance
	Description string
	Rationale   string
	Fix         string
	Check       Check
}

// Check evaluates a gate against the extracted inputs.
type Check func(in *Input) Outcome

// Outcome is what a Check reports.
type Outcome struct {
	Verdict core.Verdict
	Details []string
}

// Pass is an Outcome with no details.
func Pass() Outcome { return Outcome{Verdict: core.VerdictPass} }

// Register adds a gate to the global registry.
// Call this from init() functions in gate packages.
func Register(def Def) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.gates[def.ID] = def
}

// GetAll returns all registered gates ordered by ID.
func GetAll() []Def {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	defs := make([]Def, 0, len(globalRegistry.gates))
	for _, d := range globalRegistry.gates {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// GetByID returns a gate by its ID.
func GetByID(id string) (Def, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	d, ok := globalRegistry.gates[id]
	return d, ok
}

// Count returns the number of registered gates.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.gates)
}

// Clear removes all registered gates. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.gates = make(map[string]Def)
}

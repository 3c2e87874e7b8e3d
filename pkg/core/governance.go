package core

// CodeRef is a repository path referenced by an enforcement entry.
type CodeRef struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// Enforcement is one entry of the enforcement registry with its derived
// plane and coverage.
type Enforcement struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Status      Lifecycle `json:"status"`
	Mechanism   string    `json:"mechanism"`
	ADRs        []string  `json:"adrs"`
	CodeRefs    []CodeRef `json:"code_refs"`
	Coverage    Coverage  `json:"coverage"`
	Plane       Plane     `json:"plane"`
}

// MissingRefs returns the referenced paths that were not found in the tree.
func (e *Enforcement) MissingRefs() []string {
	var missing []string
	for _, ref := range e.CodeRefs {
		if !ref.Exists {
			missing = append(missing, ref.Path)
		}
	}
	return missing
}

// Invariant is a hand-maintained governance invariant whose coverage is
// derived from the CI gates present in the governance workflow.
type Invariant struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	ADR           string   `json:"adr"`
	Plane         Plane    `json:"plane"`
	RequiredGates []string `json:"required_gates"`
	PresentGates  []string `json:"present_gates"`
	Coverage      Coverage `json:"coverage"`
}

package esa

import (
	"testing"

	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKebab(t *testing.T) {
	tests := map[string]string{
		"Verify Signatures":     "verify-signatures",
		"adr_lint":              "adr-lint",
		"  Evidence -- Immut. ": "evidence-immut",
		"registry-drift":        "registry-drift",
		"":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Kebab(in), in)
	}
}

func TestWorkflowGates(t *testing.T) {
	gates, err := WorkflowGates([]byte(workflowYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"adr-lint", "lint", "registry-drift", "verify-signatures"}, gates)

	gates, err = WorkflowGates([]byte("name: empty\n"))
	require.NoError(t, err)
	assert.Empty(t, gates)

	_, err = WorkflowGates([]byte("jobs: [unclosed"))
	assert.Error(t, err)
}

func TestEvaluateInvariants(t *testing.T) {
	invs := EvaluateInvariants(DefaultInvariants(), []string{"registry-drift", "verify-signatures"})
	require.Len(t, invs, 4)

	assert.Equal(t, core.CoverageEnforced, invs[0].Coverage)
	assert.Equal(t, []string{"verify-signatures"}, invs[0].PresentGates)
	assert.Equal(t, core.CoverageGap, invs[1].Coverage)
	assert.Equal(t, []string{}, invs[1].PresentGates)
	assert.Equal(t, core.CoveragePartial, invs[3].Coverage)

	// input is not mutated
	assert.Empty(t, DefaultInvariants()[0].PresentGates)
}

func TestSummarize(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	for _, c := range core.Coverages() {
		assert.Contains(t, s.ByCoverage, c)
	}
	assert.Contains(t, s.ByPlane, core.PlaneEvidence)
	assert.Contains(t, s.ByStatus, core.LifecycleDeprecated)
}

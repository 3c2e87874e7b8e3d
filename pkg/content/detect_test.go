package content

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func TestThinPriority(t *testing.T) {
	tests := []struct {
		name  string
		words int
		h2    int
		want  core.Priority
		flag  bool
	}{
		{"empty", 0, 0, core.PriorityP0, true},
		{"p0 boundary", 60, 2, core.PriorityP0, true},
		{"p1 lower", 61, 2, core.PriorityP1, true},
		{"p1 boundary", 120, 0, core.PriorityP1, true},
		{"p2 no h2", 121, 0, core.PriorityP2, true},
		{"p2 boundary", 180, 0, core.PriorityP2, true},
		{"mid with h2 passes", 150, 1, "", false},
		{"long without h2 passes", 181, 0, "", false},
		{"long with h2 passes", 400, 3, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ThinPriority(tt.words, tt.h2)
			assert.Equal(t, tt.flag, ok)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestDetectThin(t *testing.T) {
	units := []core.ContentUnit{
		Prepare(core.ContentUnit{ID: "a", Body: body(10)}),
		Prepare(core.ContentUnit{ID: "b", Body: body(100), Intent: core.IntentCommercial}),
		Prepare(core.ContentUnit{ID: "c", Body: body(150)}),
		Prepare(core.ContentUnit{ID: "d", Body: body(150), H2: []string{"Section"}}),
		Prepare(core.ContentUnit{ID: "e", Body: body(300)}),
	}

	got := DetectThin(units)
	require.Len(t, got, 3)

	assert.Equal(t, "thin:a", got[0].ID)
	assert.Equal(t, core.PriorityP0, got[0].Priority)
	assert.Equal(t, core.FindingThin, got[0].Kind)

	assert.Equal(t, core.PriorityP1, got[1].Priority)
	assert.Equal(t, core.IntentCommercial, got[1].Intent)

	assert.Equal(t, []string{"c"}, got[2].Units)
	assert.Equal(t, core.PriorityP2, got[2].Priority)
	assert.Contains(t, got[2].Message, "no H2")
}

func TestDetectCannibalization_DuplicateH1AndTitle(t *testing.T) {
	units := []core.ContentUnit{
		Prepare(core.ContentUnit{ID: "a", H1: "Case Study", Title: "Work", Body: "alpha beta"}),
		Prepare(core.ContentUnit{ID: "b", H1: "  case   study ", Title: "Other", Body: "gamma"}),
		Prepare(core.ContentUnit{ID: "c", H1: "Unique", Title: "work", Body: "delta"}),
		Prepare(core.ContentUnit{ID: "d", H1: "", Title: "", Body: "epsilon"}),
	}

	got := DetectCannibalization(units)
	byRule := groupByRule(got)

	require.Len(t, byRule[RuleDuplicateH1], 1)
	assert.Equal(t, []string{"a", "b"}, byRule[RuleDuplicateH1][0].Units)
	assert.Equal(t, core.PriorityP1, byRule[RuleDuplicateH1][0].Priority)

	require.Len(t, byRule[RuleDuplicateTitle], 1)
	assert.Equal(t, []string{"a", "c"}, byRule[RuleDuplicateTitle][0].Units)

	assert.Empty(t, byRule[RuleDuplicateSignature])
}

func TestDetectCannibalization_DuplicateSignature(t *testing.T) {
	units := []core.ContentUnit{
		Prepare(core.ContentUnit{ID: "a", Body: "The same body, repeated."}),
		Prepare(core.ContentUnit{ID: "b", Body: "the SAME body repeated"}),
		Prepare(core.ContentUnit{ID: "c", Body: "a different body"}),
		Prepare(core.ContentUnit{ID: "empty1"}),
		Prepare(core.ContentUnit{ID: "empty2"}),
	}

	got := groupByRule(DetectCannibalization(units))[RuleDuplicateSignature]
	require.Len(t, got, 1, "empty bodies never collide")
	assert.Equal(t, []string{"a", "b"}, got[0].Units)
	assert.Equal(t, core.PriorityP0, got[0].Priority)
}

func TestDetectCannibalization_H2Overlap(t *testing.T) {
	units := []core.ContentUnit{
		{ID: "a", Intent: core.IntentCommercial, H2: []string{"Pricing", "How it works", "FAQ"}},
		{ID: "b", Intent: core.IntentCommercial, H2: []string{"pricing", "How  it works"}},
		{ID: "c", Intent: core.IntentInformational, H2: []string{"Pricing", "How it works"}},
		{ID: "d", Intent: core.IntentCommercial, H2: []string{"Pricing", "Contact"}},
	}

	got := groupByRule(DetectCannibalization(units))[RuleH2Overlap]
	require.Len(t, got, 1, "only same-intent pairs with two shared H2s")
	assert.Equal(t, []string{"a", "b"}, got[0].Units)
	assert.Equal(t, core.PriorityP2, got[0].Priority)
	assert.Equal(t, core.IntentCommercial, got[0].Intent)
	assert.Contains(t, got[0].Message, "2 shared H2s")
}

func TestSortFindings(t *testing.T) {
	fs := []core.Finding{
		{ID: "b", Priority: core.PriorityP2},
		{ID: "z", Priority: core.PriorityP0},
		{ID: "a", Priority: core.PriorityP2},
		{ID: "m", Priority: core.PriorityP1},
	}
	SortFindings(fs)

	var ids []string
	for _, f := range fs {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"z", "m", "a", "b"}, ids)
}

func groupByRule(fs []core.Finding) map[string][]core.Finding {
	out := make(map[string][]core.Finding)
	for _, f := range fs {
		out[f.Rule] = append(out[f.Rule], f)
	}
	return out
}

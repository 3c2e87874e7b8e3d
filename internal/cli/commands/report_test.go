package commands

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/atlas/internal/cli/testutil"
	"github.com/leapstack-labs/atlas/pkg/core"
)

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func assertGolden(t *testing.T, name string, got []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, got)
}

func esaFixture() *core.ESASnapshot {
	return &core.ESASnapshot{
		ID:          "esa-1",
		GeneratedAt: fixedTime,
		Repo:        "acme/platform",
		Ref:         "main",
		CommitSHA:   "abc1234def5678",
		TreeSize:    120,
		CIGates:     []string{"tenancy-check"},
		Enforcements: []core.Enforcement{
			{
				ID:          "ENF-001",
				Description: "Tenant data is isolated",
				Status:      core.LifecycleActive,
				Mechanism:   "ci",
				CodeRefs:    []core.CodeRef{{Path: "internal/tenancy/guard.go", Exists: true}},
				Coverage:    core.CoverageEnforced,
				Plane:       core.PlaneTrust,
			},
			{
				ID:          "ENF-002",
				Description: "Decisions are recorded",
				Status:      core.LifecycleProposed,
				CodeRefs:    []core.CodeRef{{Path: "docs/adr/0007.md"}},
				Coverage:    core.CoverageDeclared,
				Plane:       core.PlaneDecision,
			},
		},
		Invariants: []core.Invariant{
			{
				ID:            "INV-1",
				Label:         "Tenant isolation",
				Plane:         core.PlaneTrust,
				RequiredGates: []string{"tenancy-check"},
				PresentGates:  []string{"tenancy-check"},
				Coverage:      core.CoverageEnforced,
			},
			{
				ID:            "INV-2",
				Label:         "Evidence retention",
				Plane:         core.PlaneEvidence,
				RequiredGates: []string{"evidence-export", "retention-check"},
				PresentGates:  []string{},
				Coverage:      core.CoverageGap,
			},
		},
		Summary: core.ESASummary{
			Total:      2,
			ByCoverage: map[core.Coverage]int{core.CoverageEnforced: 1, core.CoverageDeclared: 1},
		},
		Warnings: []string{"workflow .github/workflows/governance.yml not found"},
	}
}

func okRoute(path string, plane core.SEOPlane) core.Route {
	return core.Route{
		Path:          path,
		Plane:         plane,
		Title:         core.OK("Platform engineering for regulated teams"),
		Description:   core.OK("Delivery pipelines that produce their own audit evidence."),
		Canonical:     core.OK("https://example.com" + path),
		OGTitle:       core.OK("Atlas"),
		OGDescription: core.OK("Ship audited software"),
		OGImage:       core.OK("/og?title=Atlas"),
		TwitterCard:   core.OK("summary_large_image"),
		Indexable:     core.OK("index"),
		InSitemap:     core.OK("yes"),
	}
}

func seoFixture() *core.SEOSnapshot {
	about := okRoute("/about", core.SEOPlaneRelevance)
	about.Title = core.Warn("About", "title shorter than 30 characters")
	about.Description = core.Missing("add a meta description")
	return &core.SEOSnapshot{
		ID:           "seo-1",
		GeneratedAt:  fixedTime,
		SiteURL:      "https://example.com",
		Routes:       []core.Route{okRoute("/", core.SEOPlaneDiscovery), about},
		SitemapPaths: []string{"/", "/about"},
		Gates: []core.GateResult{
			{ID: "G1", Name: "sitemap-robots-coherence", Plane: core.SEOPlaneDiscovery, Verdict: core.VerdictPass},
			{
				ID: "G2", Name: "metadata-completeness", Plane: core.SEOPlaneRelevance, Verdict: core.VerdictWarn,
				Details: []string{"/about: title shorter than 30 characters"},
			},
		},
		Score: 75,
	}
}

func contentFixture() *core.ContentSnapshot {
	return &core.ContentSnapshot{
		ID:          "content-1",
		GeneratedAt: fixedTime,
		Mode:        core.ContentStatic,
		Units: []core.ContentUnit{
			{ID: "home", Persona: "founder", Intent: core.IntentInformational, WordCount: 320},
			{ID: "services", Persona: "founder", Intent: core.IntentCommercial, WordCount: 320},
			{ID: "pricing", Persona: "general", Intent: core.IntentNavigational, WordCount: 90},
		},
		Findings: []core.Finding{{
			ID:       "thin-pricing",
			Kind:     core.FindingThin,
			Rule:     "min-words",
			Priority: core.PriorityP0,
			Units:    []string{"pricing"},
			Message:  "90 words, below 150",
		}},
		Personas: []core.PersonaCoverage{
			{
				Persona: "founder", Units: 2, Words: 640, Findings: 1, Score: 75,
				Intents:        []string{core.IntentInformational, core.IntentNavigational, core.IntentCommercial},
				MissingIntents: []string{core.IntentTransactional},
			},
			{
				Persona: "general", Units: 1, Words: 90, Score: 25,
				Intents:        []string{core.IntentNavigational},
				MissingIntents: []string{core.IntentInformational, core.IntentCommercial, core.IntentTransactional},
			},
		},
	}
}

func historyFixture() []core.SnapshotHeader {
	return []core.SnapshotHeader{
		{ID: "seo-2", Kind: core.KindSEO, GeneratedAt: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), Score: 80, Items: 5},
		{ID: "esa-1", Kind: core.KindESA, GeneratedAt: fixedTime, Score: 50, Items: 2, Warnings: 1},
	}
}

func TestRenderESA_Markdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, renderESA(tr.Renderer, esaFixture(), false))

	testutil.AssertNoANSI(t, tr.Output())
	testutil.AssertValidMarkdown(t, tr.Output())
	assertGolden(t, "esa_markdown", tr.Out.Bytes())
}

func TestRenderSEO_Markdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, renderSEO(tr.Renderer, seoFixture(), true))

	testutil.AssertValidMarkdown(t, tr.Output())
	assertGolden(t, "seo_markdown", tr.Out.Bytes())
}

func TestRenderContent_Markdown(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, renderContent(tr.Renderer, contentFixture(), false))

	testutil.AssertValidMarkdown(t, tr.Output())
	assertGolden(t, "content_markdown", tr.Out.Bytes())
}

func TestRenderHistory(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		require.NoError(t, renderHistory(tr.Renderer, historyFixture()))
		assertGolden(t, "history_json", tr.Out.Bytes())
	})

	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		require.NoError(t, renderHistory(tr.Renderer, historyFixture()))
		assertGolden(t, "history_markdown", tr.Out.Bytes())
	})

	t.Run("empty", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		require.NoError(t, renderHistory(tr.Renderer, []core.SnapshotHeader{}))
		assert.Equal(t, "# Snapshot history\n\nNo archived snapshots.\n", tr.Output())
	})
}

func TestRender_JSONRoundTrip(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	require.NoError(t, renderSEO(tr.Renderer, seoFixture(), false))

	var got core.SEOSnapshot
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.Equal(t, seoFixture().Routes, got.Routes)
	assert.Equal(t, 75, got.Score)
}

func TestRender_Text(t *testing.T) {
	tests := []struct {
		name   string
		render func(tr *testutil.TestRenderer) error
		want   []string
	}{
		{
			name:   "esa",
			render: func(tr *testutil.TestRenderer) error { return renderESA(tr.Renderer, esaFixture(), true) },
			want:   []string{"ESA Snapshot", "(cached)", "acme/platform@main", "ENF-002", "docs/adr/0007.md", "Evidence retention", "Decision"},
		},
		{
			name:   "seo",
			render: func(tr *testutil.TestRenderer) error { return renderSEO(tr.Renderer, seoFixture(), false) },
			want:   []string{"SEO Snapshot", "metadata-completeness", "/about", "title warn", "description missing"},
		},
		{
			name:   "content",
			render: func(tr *testutil.TestRenderer) error { return renderContent(tr.Renderer, contentFixture(), false) },
			want:   []string{"Content Coverage", "founder", "transactional", "thin/min-words"},
		},
		{
			name:   "history",
			render: func(tr *testutil.TestRenderer) error { return renderHistory(tr.Renderer, historyFixture()) },
			want:   []string{"Snapshot History", "seo-2", "2026-01-02T03:04:05Z"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := testutil.NewTestRendererText()
			require.NoError(t, tt.render(tr))
			out := tr.Output()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			assert.NotContains(t, out, "# ", "text mode must not emit markdown headers")
			assert.Empty(t, tr.ErrorOutput(), "reports write only to stdout")
		})
	}
}

func TestMissingGates(t *testing.T) {
	inv := core.Invariant{RequiredGates: []string{"a", "b", "c"}, PresentGates: []string{"b"}}
	assert.Equal(t, []string{"a", "c"}, missingGates(inv))
	assert.Empty(t, missingGates(core.Invariant{RequiredGates: []string{"a"}, PresentGates: []string{"a"}}))
}

func TestShortSHA(t *testing.T) {
	assert.Equal(t, "abc1234", shortSHA("abc1234def"))
	assert.Equal(t, "abc", shortSHA("abc"))
}

func TestRouteFields_CoverEveryField(t *testing.T) {
	var rt core.Route
	fields := rt.Fields()
	assert.Len(t, routeFields, len(fields))
	for _, name := range routeFields {
		assert.Contains(t, fields, name)
	}
}

package esa

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leapstack-labs/atlas/internal/github"
	"github.com/leapstack-labs/atlas/internal/testutil"
	"github.com/leapstack-labs/atlas/pkg/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const registryYAML = `enforcements:
  - id: ENF-001
    description: Receipts are signed
    status: active
    mechanism: ci-gate
    code_refs: [src/sign.ts]
  - id: ENF-002
    description: Audit trail retention
    status: active
    code_refs:
      - src/audit/
      - src/missing.ts
  - id: ENF-003
    description: Decisions reference an ADR
    status: proposed
`

const workflowYAML = `name: governance
on: [pull_request]
jobs:
  verify-signatures:
    runs-on: ubuntu-latest
    steps:
      - name: Registry drift
        run: node scripts/registry-drift.mjs
  lint:
    name: ADR Lint
    steps:
      - uses: actions/checkout@v4
`

type fakeSource struct {
	mu       sync.Mutex
	calls    []string
	commit   error
	tree     error
	registry error
	workflow error
	files    map[string]string
}

func newFakeSource() *fakeSource {
	return &fakeSource{files: map[string]string{
		DefaultRegistryPath: registryYAML,
		DefaultWorkflowPath: workflowYAML,
	}}
}

func (f *fakeSource) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSource) Commit(_ context.Context, _ github.Repo, ref string) (*github.Commit, error) {
	f.record("commit:" + ref)
	if f.commit != nil {
		return nil, f.commit
	}
	return &github.Commit{SHA: "abc123"}, nil
}

func (f *fakeSource) Tree(_ context.Context, _ github.Repo, sha string) (*github.Tree, error) {
	f.record("tree:" + sha)
	if f.tree != nil {
		return nil, f.tree
	}
	return &github.Tree{SHA: sha, Entries: []github.TreeEntry{
		{Path: "src", Type: "tree"},
		{Path: "src/sign.ts", Type: "blob"},
		{Path: "src/audit", Type: "tree"},
		{Path: "src/audit/log.ts", Type: "blob"},
	}}, nil
}

func (f *fakeSource) Contents(_ context.Context, _ github.Repo, path, _ string) ([]byte, error) {
	f.record("contents:" + path)
	if path == DefaultRegistryPath && f.registry != nil {
		return nil, f.registry
	}
	if path == DefaultWorkflowPath && f.workflow != nil {
		return nil, f.workflow
	}
	data, ok := f.files[path]
	if !ok {
		return nil, github.ErrNotFound
	}
	return []byte(data), nil
}

func newTestBuilder(t *testing.T, src Source) *Builder {
	b := NewBuilder(Config{Repo: "acme/gov", Token: "t"}, src, testutil.NewTestLogger(t))
	b.now = func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func TestBuild(t *testing.T) {
	snap, err := newTestBuilder(t, newFakeSource()).Build(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "acme/gov", snap.Repo)
	assert.Equal(t, "main", snap.Ref)
	assert.Equal(t, "abc123", snap.CommitSHA)
	assert.Equal(t, 4, snap.TreeSize)
	assert.Empty(t, snap.Warnings)
	assert.Equal(t, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC), snap.GeneratedAt)

	require.Len(t, snap.Enforcements, 3)
	assert.Equal(t, core.CoverageEnforced, snap.Enforcements[0].Coverage)
	assert.Equal(t, core.PlaneTrust, snap.Enforcements[0].Plane)
	assert.Equal(t, core.CoveragePartial, snap.Enforcements[1].Coverage)
	assert.Equal(t, core.PlaneEvidence, snap.Enforcements[1].Plane)
	assert.Equal(t, []string{"src/missing.ts"}, snap.Enforcements[1].MissingRefs())
	assert.Equal(t, core.CoverageDeclared, snap.Enforcements[2].Coverage)

	assert.Equal(t, []string{"adr-lint", "lint", "registry-drift", "verify-signatures"}, snap.CIGates)

	inv := make(map[string]core.Coverage)
	for _, i := range snap.Invariants {
		inv[i.ID] = i.Coverage
	}
	assert.Equal(t, map[string]core.Coverage{
		"INV-01": core.CoverageEnforced,
		"INV-02": core.CoverageEnforced,
		"INV-03": core.CoverageGap,
		"INV-04": core.CoveragePartial,
	}, inv)

	assert.Equal(t, 3, snap.Summary.Total)
	assert.Equal(t, 1, snap.Summary.ByCoverage[core.CoverageEnforced])
	assert.Equal(t, 1, snap.Summary.ByPlane[core.PlaneDecision])
	assert.Equal(t, 2, snap.Summary.ByStatus[core.LifecycleActive])
}

func TestBuild_Unavailable(t *testing.T) {
	src := newFakeSource()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no token", Config{Repo: "acme/gov"}},
		{"no repo", Config{Token: "t"}},
		{"bad repo", Config{Repo: "acme", Token: "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := NewBuilder(tt.cfg, src, testutil.NewTestLogger(t)).Build(context.Background())
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
	assert.Empty(t, src.calls, "nothing is fetched without credentials")
}

func TestBuild_RequiredFetchFails(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		mutate func(f *fakeSource)
	}{
		{"commit", func(f *fakeSource) { f.commit = boom }},
		{"tree", func(f *fakeSource) { f.tree = boom }},
		{"registry", func(f *fakeSource) { f.registry = boom }},
		{"registry missing", func(f *fakeSource) { delete(f.files, DefaultRegistryPath) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource()
			tt.mutate(src)
			snap, err := newTestBuilder(t, src).Build(context.Background())
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestBuild_WorkflowOptional(t *testing.T) {
	src := newFakeSource()
	src.workflow = github.ErrNotFound

	snap, err := newTestBuilder(t, src).Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.CIGates)
	require.Len(t, snap.Warnings, 1)
	assert.Contains(t, snap.Warnings[0], DefaultWorkflowPath)
	for _, inv := range snap.Invariants {
		assert.Equal(t, core.CoverageGap, inv.Coverage)
	}
}

func TestBuild_RegistryRegexFallback(t *testing.T) {
	src := newFakeSource()
	src.files[DefaultRegistryPath] = "enforcements:\n  - id: ENF-9\n    description: Key: rotation\n    status: active\n"

	snap, err := newTestBuilder(t, src).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Enforcements, 1)
	assert.Equal(t, "Key: rotation", snap.Enforcements[0].Description)
	assert.Len(t, snap.Warnings, 1)
}

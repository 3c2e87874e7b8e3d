package snapshot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/atlas/internal/metrics"
	"github.com/leapstack-labs/atlas/internal/state"
	"github.com/leapstack-labs/atlas/internal/testutil"
	"github.com/leapstack-labs/atlas/pkg/core"
)

type fakeSEO struct {
	calls atomic.Int32
	gate  chan struct{}
	err   error
}

func (f *fakeSEO) Build(context.Context) (*core.SEOSnapshot, error) {
	n := f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return &core.SEOSnapshot{ID: "seo-" + string(rune('0'+n)), Score: 50, Routes: []core.Route{{Path: "/"}}}, nil
}

type fakeESA struct{ err error }

func (f fakeESA) Build(context.Context) (*core.ESASnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &core.ESASnapshot{
		ID:           "esa-1",
		Enforcements: make([]core.Enforcement, 4),
		Summary: core.ESASummary{
			Total:      4,
			ByCoverage: map[core.Coverage]int{core.CoverageEnforced: 3, core.CoverageDeclared: 1},
		},
	}, nil
}

type fakeContent struct {
	liveBases []string
	mu        sync.Mutex
}

func (f *fakeContent) Static(context.Context) (*core.ContentSnapshot, error) {
	return &core.ContentSnapshot{ID: "static", Mode: core.ContentStatic, Personas: []core.PersonaCoverage{{Score: 75}, {Score: 50}}}, nil
}

func (f *fakeContent) Live(_ context.Context, base string) (*core.ContentSnapshot, error) {
	f.mu.Lock()
	f.liveBases = append(f.liveBases, base)
	f.mu.Unlock()
	return &core.ContentSnapshot{ID: "live", Mode: core.ContentLive, BaseURL: base}, nil
}

type memArchive struct {
	mu    sync.Mutex
	saved []core.SnapshotHeader
}

func (a *memArchive) Save(_ context.Context, h core.SnapshotHeader, _ any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, h)
	return nil
}

func (a *memArchive) Get(_ context.Context, id string) (*state.Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, h := range a.saved {
		if h.ID == id {
			return &state.Record{SnapshotHeader: h}, nil
		}
	}
	return nil, state.ErrNotFound
}

func (a *memArchive) List(_ context.Context, kind core.SnapshotKind, _ int) ([]core.SnapshotHeader, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []core.SnapshotHeader
	for _, h := range a.saved {
		if kind == "" || h.Kind == kind {
			out = append(out, h)
		}
	}
	return out, nil
}

// blockingSEO holds its build until release is closed and honors its context
// the way the real builders do.
type blockingSEO struct {
	calls   atomic.Int32
	release chan struct{}
}

func (f *blockingSEO) Build(ctx context.Context) (*core.SEOSnapshot, error) {
	f.calls.Add(1)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.release:
	}
	return &core.SEOSnapshot{ID: "seo-shared", Score: 80}, nil
}

func TestSEO_SharedBuildSurvivesFirstCallerCancel(t *testing.T) {
	seo := &blockingSEO{release: make(chan struct{})}
	s := New(Config{SEO: seo, Logger: testutil.NewTestLogger(t)})

	firstCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := s.SEO(firstCtx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return seo.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		snap *core.SEOSnapshot
		err  error
	}
	second := make(chan result, 1)
	go func() {
		snap, _, err := s.SEO(context.Background())
		second <- result{snap, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(seo.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "seo-shared", res.snap.ID)

	_, hit, err := s.SEO(context.Background())
	require.NoError(t, err)
	assert.True(t, hit, "the detached build still fills the cache")
}

func TestInvalidateLive_DropsRequestedBase(t *testing.T) {
	content := &fakeContent{}
	s := New(Config{Content: content, LiveBaseURL: "http://localhost:4321"})
	ctx := context.Background()

	_, _, err := s.Content(ctx, core.ContentLive, "https://other.example")
	require.NoError(t, err)

	require.NoError(t, s.Invalidate(ctx, core.KindContent))
	_, hit, err := s.Content(ctx, core.ContentLive, "https://other.example")
	require.NoError(t, err)
	assert.True(t, hit, "kind invalidation keeps entries of other bases")

	require.NoError(t, s.InvalidateLive(ctx, "https://other.example"))
	_, hit, err = s.Content(ctx, core.ContentLive, "https://other.example")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"https://other.example", "https://other.example"}, content.liveBases)

	assert.NoError(t, New(Config{Content: content}).InvalidateLive(ctx, ""))
}

func TestSEO_CachesSecondRequest(t *testing.T) {
	seo := &fakeSEO{}
	s := New(Config{SEO: seo, Metrics: metrics.NewRegistry(), Logger: testutil.NewTestLogger(t)})
	ctx := context.Background()

	first, hit, err := s.SEO(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := s.SEO(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int32(1), seo.calls.Load())
}

func TestSEO_ConcurrentMissesShareBuild(t *testing.T) {
	seo := &fakeSEO{gate: make(chan struct{})}
	s := New(Config{SEO: seo})

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.SEO(context.Background())
			assert.NoError(t, err)
		}()
	}
	// let every caller reach the build before releasing it
	require.Eventually(t, func() bool { return seo.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(seo.gate)
	wg.Wait()

	assert.LessOrEqual(t, seo.calls.Load(), int32(2))
}

func TestBuildErrorsAreNotCached(t *testing.T) {
	boom := errors.New("site root missing")
	seo := &fakeSEO{err: boom}
	s := New(Config{SEO: seo})

	_, _, err := s.SEO(context.Background())
	assert.ErrorIs(t, err, boom)
	_, _, err = s.SEO(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), seo.calls.Load())
}

func TestContent_Modes(t *testing.T) {
	content := &fakeContent{}
	s := New(Config{Content: content, LiveBaseURL: "https://atlas.example.com"})
	ctx := context.Background()

	snap, _, err := s.Content(ctx, core.ContentStatic, "")
	require.NoError(t, err)
	assert.Equal(t, "static", snap.ID)

	snap, _, err = s.Content(ctx, core.ContentLive, "")
	require.NoError(t, err)
	assert.Equal(t, "https://atlas.example.com", snap.BaseURL)

	_, hit, err := s.Content(ctx, core.ContentLive, "http://localhost:4321")
	require.NoError(t, err)
	assert.False(t, hit, "live snapshots are cached per base URL")
	assert.Equal(t, []string{"https://atlas.example.com", "http://localhost:4321"}, content.liveBases)

	_, _, err = s.Content(ctx, "hybrid", "")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestInvalidateAndRefresh(t *testing.T) {
	seo := &fakeSEO{}
	var announced []core.SnapshotHeader
	s := New(Config{SEO: seo, ESA: fakeESA{}, Content: &fakeContent{}})
	s.OnRefresh(func(h core.SnapshotHeader) { announced = append(announced, h) })
	ctx := context.Background()

	_, _, err := s.SEO(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Invalidate(ctx, core.KindSEO))
	_, hit, err := s.SEO(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	h, err := s.Refresh(ctx, core.KindESA)
	require.NoError(t, err)
	assert.Equal(t, core.KindESA, h.Kind)
	assert.Equal(t, 75, h.Score)
	assert.Equal(t, 4, h.Items)

	h, err = s.Refresh(ctx, core.KindContent)
	require.NoError(t, err)
	assert.Equal(t, 62, h.Score)

	_, err = s.Refresh(ctx, "bogus")
	assert.Error(t, err)

	require.Len(t, announced, 4)
	assert.Equal(t, core.KindSEO, announced[0].Kind)
}

func TestArchive(t *testing.T) {
	ctx := context.Background()

	s := New(Config{SEO: &fakeSEO{}})
	_, err := s.History(ctx, "", 10)
	assert.ErrorIs(t, err, ErrNoArchive)
	assert.ErrorIs(t, s.Save(ctx, core.SnapshotHeader{}, nil), ErrNoArchive)
	_, err = s.Archived(ctx, "x")
	assert.ErrorIs(t, err, ErrNoArchive)

	archive := &memArchive{}
	s = New(Config{SEO: &fakeSEO{}, ESA: fakeESA{err: errors.New("no token")}, Archive: archive, AutoArchive: true})
	_, _, err = s.SEO(ctx)
	require.NoError(t, err)
	_, _, err = s.SEO(ctx)
	require.NoError(t, err)
	_, _, err = s.ESA(ctx)
	require.Error(t, err)

	history, err := s.History(ctx, core.KindSEO, 10)
	require.NoError(t, err)
	require.Len(t, history, 1, "cache hits and failed builds are not archived")

	rec, err := s.Archived(ctx, history[0].ID)
	require.NoError(t, err)
	assert.Equal(t, core.KindSEO, rec.Kind)
	_, err = s.Archived(ctx, "missing")
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestNotConfigured(t *testing.T) {
	s := New(Config{})
	ctx := context.Background()
	_, _, err := s.ESA(ctx)
	assert.Error(t, err)
	_, _, err = s.SEO(ctx)
	assert.Error(t, err)
	_, _, err = s.Content(ctx, core.ContentStatic, "")
	assert.Error(t, err)
	assert.Equal(t, time.Hour, s.TTL())
}

func TestHeaders(t *testing.T) {
	assert.Equal(t, 0, ESAHeader(&core.ESASnapshot{}).Score)
	assert.Equal(t, 0, ContentHeader(&core.ContentSnapshot{}).Score)

	h := SEOHeader(&core.SEOSnapshot{ID: "x", Score: 80, Routes: make([]core.Route, 3), Warnings: []string{"w"}})
	assert.Equal(t, core.SnapshotHeader{ID: "x", Kind: core.KindSEO, Score: 80, Items: 3, Warnings: 1}, h)
}

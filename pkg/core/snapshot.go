package core

import "time"

// SnapshotKind identifies a snapshot family.
type SnapshotKind string

// Snapshot kinds.
const (
	KindESA     SnapshotKind = "esa"
	KindSEO     SnapshotKind = "seo"
	KindContent SnapshotKind = "content"
)

// ParseSnapshotKind validates a snapshot kind name.
func ParseSnapshotKind(s string) (SnapshotKind, bool) {
	switch SnapshotKind(s) {
	case KindESA, KindSEO, KindContent:
		return SnapshotKind(s), true
	default:
		return "", false
	}
}

// ESASummary counts enforcements by category.
type ESASummary struct {
	Total      int               `json:"total"`
	ByCoverage map[Coverage]int  `json:"by_coverage"`
	ByPlane    map[Plane]int     `json:"by_plane"`
	ByStatus   map[Lifecycle]int `json:"by_status"`
}

// ESASnapshot is the registry/tree governance snapshot.
type ESASnapshot struct {
	ID            string        `json:"id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Repo          string        `json:"repo"`
	Ref           string        `json:"ref"`
	CommitSHA     string        `json:"commit_sha"`
	TreeSize      int           `json:"tree_size"`
	TreeTruncated bool          `json:"tree_truncated"`
	CIGates       []string      `json:"ci_gates"`
	Enforcements  []Enforcement `json:"enforcements"`
	Invariants    []Invariant   `json:"invariants"`
	Summary       ESASummary    `json:"summary"`
	Warnings      []string      `json:"warnings,omitempty"`
}

// SEOSnapshot is the local SEO health snapshot.
type SEOSnapshot struct {
	ID             string       `json:"id"`
	GeneratedAt    time.Time    `json:"generated_at"`
	SiteURL        string       `json:"site_url"`
	Routes         []Route      `json:"routes"`
	SitemapPaths   []string     `json:"sitemap_paths"`
	StructuredData []string     `json:"structured_data"`
	Gates          []GateResult `json:"gates"`
	Score          int          `json:"score"`
	Warnings       []string     `json:"warnings,omitempty"`
}

// ContentMode selects the content analyzer variant.
type ContentMode string

// Content modes.
const (
	ContentStatic ContentMode = "static"
	ContentLive   ContentMode = "live"
)

// ContentSnapshot is the content coverage snapshot.
type ContentSnapshot struct {
	ID          string            `json:"id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Mode        ContentMode       `json:"mode"`
	BaseURL     string            `json:"base_url,omitempty"`
	Units       []ContentUnit     `json:"units"`
	Findings    []Finding         `json:"findings"`
	Personas    []PersonaCoverage `json:"personas"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// SnapshotHeader is the archived summary of a snapshot.
type SnapshotHeader struct {
	ID          string       `json:"id"`
	Kind        SnapshotKind `json:"kind"`
	GeneratedAt time.Time    `json:"generated_at"`
	Score       int          `json:"score"`
	Items       int          `json:"items"`
	Warnings    int          `json:"warnings"`
}

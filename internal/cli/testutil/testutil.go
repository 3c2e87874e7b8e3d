// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/atlas/internal/cli/output"
)

const routesTS = `import { SITE_URL } from "@/lib/site";

export const routes = [
  {
    path: "/",
    title: "Platform engineering for regulated teams",
    description: "Delivery pipelines that produce their own audit evidence, for small product teams.",
    canonical: ` + "`${SITE_URL}/`" + `,
    ogTitle: "Atlas Consulting",
    ogDescription: "Ship audited software without slowing down",
    ogImage: "/og?title=Home",
    twitterCard: "summary_large_image",
  },
  {
    path: "/about",
    title: "About",
    description: "Short.",
  },
];
`

// SiteFiles is a minimal site checkout with two routes.
func SiteFiles() map[string]string {
	return map[string]string{
		"lib/seo/routes.ts":          routesTS,
		"app/sitemap.ts":             "export default () => [`${SITE_URL}`, `${SITE_URL}/about`];",
		"app/robots.ts":              "export default () => ({ rules: { disallow: ['/api/'] }, sitemap: `${SITE_URL}/sitemap.xml` });",
		"lib/seo/structured-data.ts": `{ "@type": "Organization" }`,
		".github/workflows/seo.yml":  "jobs:\n  seo:\n    steps:\n      - run: npm run seo:audit\n",
	}
}

// WriteFiles writes files relative to root, creating directories.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// SetupTestProject creates a temporary project with atlas.yaml and a site
// checkout under site/.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	WriteFiles(t, tmpDir, map[string]string{
		"atlas.yaml": `site_url: https://example.com
state_path: .atlas/atlas.db
seo:
  site_root: site
cache:
  backend: memory
`,
	})
	WriteFiles(t, filepath.Join(tmpDir, "site"), SiteFiles())
	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}

package seo

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routesTS = `import { SITE_URL } from "@/lib/site";

export type SeoRoute = { path: string; title: string; index?: boolean };

export const routes: SeoRoute[] = [
  {
    path: "/",
    title: "Platform engineering for regulated teams",
    description: "Delivery pipelines that produce their own audit evidence, for small product teams.",
    canonical: ` + "`${SITE_URL}/`" + `,
    ogTitle: "Atlas Consulting",
    ogDescription: 'Ship audited software without slowing down',
    ogImage: "/og?title=Home",
    twitterCard: "summary_large_image",
    index: true,
  },
  {
    path: "/about",
    title: "About",
    description: "Short.",
    canonical: "http://example.com/about",
    plane: "relevance",
  },
  {
    path: "/atlas",
    title: "Atlas dashboard",
    index: false,
  },
];
`

func TestExtractRoutes(t *testing.T) {
	routes := ExtractRoutes(routesTS, "https://example.com/")
	require.Len(t, routes, 3)

	home := routes[0]
	assert.Equal(t, "/", home.Path)
	assert.Equal(t, "https://example.com/", home.Canonical)
	assert.Equal(t, "Ship audited software without slowing down", home.OGDescription)
	assert.Equal(t, "summary_large_image", home.TwitterCard)
	assert.False(t, home.NoIndex)

	assert.Equal(t, "relevance", routes[1].Plane)
	assert.Empty(t, routes[1].OGImage)

	assert.True(t, routes[2].NoIndex)
}

func TestExtractRoutes_NoIndexString(t *testing.T) {
	routes := ExtractRoutes(`[{ path: "/x", index: "noindex" }, { path: "/y", noindex: true }]`, "")
	require.Len(t, routes, 2)
	assert.True(t, routes[0].NoIndex)
	assert.True(t, routes[1].NoIndex)
}

func TestExtractSitemapPaths(t *testing.T) {
	src := "import { SITE_URL as base } from './site';\n" +
		"export default function sitemap() {\n" +
		"  return [\n" +
		"    { url: `${base}`, priority: 1 },\n" +
		"    { url: `${base}/about` },\n" +
		"    { url: base + \"/services\" },\n" +
		"    { url: `${base}/about` },\n" +
		"  ];\n" +
		"}\n"

	assert.Equal(t, []string{"/", "/about", "/services"}, ExtractSitemapPaths(src))
}

func TestExtractRobots(t *testing.T) {
	src := "export default function robots() {\n" +
		"  return {\n" +
		"    rules: { userAgent: '*', allow: '/', disallow: ['/api/', \"/atlas\"] },\n" +
		"    sitemap: `${SITE_URL}/sitemap.xml`,\n" +
		"  };\n" +
		"}\n"

	r := ExtractRobots(src, "https://example.com")
	assert.True(t, r.Present)
	assert.Equal(t, []string{"/api/", "/atlas"}, r.Disallow)
	assert.Equal(t, "https://example.com/sitemap.xml", r.Sitemap)

	r = ExtractRobots(`{ disallow: "/private" }`, "")
	assert.Equal(t, []string{"/private"}, r.Disallow)
	assert.Empty(t, r.Sitemap)
}

func TestExtractStructuredData(t *testing.T) {
	src := `export const person = { "@context": "https://schema.org", "@type": "Person" };
export const site = { '@type': 'WebSite' };
export const again = { "@type": "Person" };`
	assert.Equal(t, []string{"Person", "WebSite"}, ExtractStructuredData(src))
}

func TestScanWorkflows(t *testing.T) {
	fsys := fstest.MapFS{
		".github/workflows/ci.yml": {Data: []byte("jobs:\n  test:\n    steps:\n      - run: go test ./...\n")},
		".github/workflows/seo.yaml": {Data: []byte("jobs:\n  audit:\n    steps:\n      - name: Lighthouse SEO audit\n")},
		".github/workflows/notes.md": {Data: []byte("seo")},
	}

	wfs, err := ScanWorkflows(fsys)
	require.NoError(t, err)
	require.Len(t, wfs, 2)

	byPath := make(map[string]bool)
	for _, w := range wfs {
		byPath[w.Path] = w.SEOAudit
	}
	assert.Equal(t, map[string]bool{
		".github/workflows/ci.yml":   false,
		".github/workflows/seo.yaml": true,
	}, byPath)
}

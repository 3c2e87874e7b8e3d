package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!doctype html>
<html>
<head><title> Services | Atlas </title><style>body{color:red}</style></head>
<body>
  <header><h1>Site header</h1><nav><a href="/">Home</a></nav></header>
  <main>
    <h1>Platform <em>engineering</em></h1>
    <p>We build pipelines that   sign every release.</p>
    <script>window.track("x")</script>
    <h2>What you get</h2>
    <p>Runbooks and CI gates.</p>
    <!-- hidden comment -->
    <h2>How it works</h2>
  </main>
  <footer>Copyright</footer>
</body>
</html>`

func TestParsePage(t *testing.T) {
	p, err := ParsePage("https://example.com/services?ref=x", []byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "/services", p.Path)
	assert.Equal(t, "Services | Atlas", p.Title)
	assert.Equal(t, "Platform engineering", p.H1)
	assert.Equal(t, []string{"What you get", "How it works"}, p.H2)
	assert.Equal(t, "Platform engineering We build pipelines that sign every release. What you get Runbooks and CI gates. How it works", p.Text)
	assert.NotContains(t, p.Text, "track")
	assert.NotContains(t, p.Text, "Copyright")

	assert.Contains(t, p.Markdown, "## What you get")
	assert.NotContains(t, p.Markdown, "hidden comment")
}

func TestParsePage_BodyFallback(t *testing.T) {
	page := `<html><body><nav>Menu</nav><h1>Hello</h1><p>World</p><footer>f</footer></body></html>`
	p, err := ParsePage("https://example.com", []byte(page))
	require.NoError(t, err)

	assert.Equal(t, "/", p.Path)
	assert.Equal(t, "Hello", p.H1)
	assert.Equal(t, "Hello World", p.Text)
	assert.Empty(t, p.H2)
}

// Package gates registers the built-in SEO gates with the gate registry.
// Import it for side effects.
package gates

import (
	"net/url"
	"strings"
)

// normPath drops a trailing slash so "/about/" and "/about" compare equal.
func normPath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// urlPath returns the normalized path of an absolute or relative URL.
func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return normPath(raw)
	}
	return normPath(u.Path)
}

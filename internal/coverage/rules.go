// Package coverage builds content coverage snapshots from the static catalog
// or from a live crawl.
package coverage

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/atlas/pkg/content"
	"github.com/leapstack-labs/atlas/pkg/core"
)

// Rule tags pages under a path prefix with an intent and persona.
type Rule struct {
	Prefix  string `koanf:"prefix"`
	Intent  string `koanf:"intent"`
	Persona string `koanf:"persona"`
}

// DefaultRules returns the built-in path-prefix rules.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/blog", Intent: core.IntentInformational},
		{Prefix: "/services", Intent: core.IntentCommercial},
		{Prefix: "/pricing", Intent: core.IntentCommercial},
		{Prefix: "/contact", Intent: core.IntentTransactional},
	}
}

// Classifier matches page paths against rules. The longest matching prefix
// wins; a prefix only matches on a segment boundary.
type Classifier struct {
	rules []Rule
}

// NewClassifier normalizes rules. A nil or empty set uses DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		r.Prefix = "/" + strings.Trim(r.Prefix, "/")
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Prefix) > len(out[j].Prefix) })
	return &Classifier{rules: out}
}

// Classify returns the intent and persona for a page path.
func (c *Classifier) Classify(path string) (intent, persona string) {
	path = "/" + strings.Trim(path, "/")
	for _, r := range c.rules {
		if !matchPrefix(path, r.Prefix) {
			continue
		}
		intent, persona = r.Intent, r.Persona
		break
	}
	if intent == "" {
		intent = core.IntentNavigational
	}
	if persona == "" {
		persona = content.DefaultPersona
	}
	return intent, persona
}

func matchPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

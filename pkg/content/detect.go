package content

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/atlas/pkg/core"
)

// Thin-content thresholds, in words.
const (
	ThinP0Max = 60
	ThinP1Max = 120
	ThinP2Max = 180
)

// Rule names carried on findings.
const (
	RuleThin               = "thin-content"
	RuleDuplicateH1        = "duplicate-h1"
	RuleDuplicateTitle     = "duplicate-title"
	RuleDuplicateSignature = "duplicate-signature"
	RuleH2Overlap          = "h2-overlap"
)

// MinH2Overlap is the number of shared H2s that marks two units of the same
// intent as competing.
const MinH2Overlap = 2

// ThinPriority classifies a word count. ok is false when the unit passes.
func ThinPriority(wordCount, h2Count int) (p core.Priority, ok bool) {
	switch {
	case wordCount <= ThinP0Max:
		return core.PriorityP0, true
	case wordCount <= ThinP1Max:
		return core.PriorityP1, true
	case wordCount <= ThinP2Max && h2Count == 0:
		return core.PriorityP2, true
	default:
		return "", false
	}
}

// DetectThin flags units whose body is too short.
func DetectThin(units []core.ContentUnit) []core.Finding {
	var out []core.Finding
	for _, u := range units {
		p, ok := ThinPriority(u.WordCount, len(u.H2))
		if !ok {
			continue
		}
		msg := fmt.Sprintf("%d words", u.WordCount)
		if p == core.PriorityP2 {
			msg += " and no H2 sections"
		}
		out = append(out, core.Finding{
			ID:       "thin:" + u.ID,
			Kind:     core.FindingThin,
			Rule:     RuleThin,
			Priority: p,
			Units:    []string{u.ID},
			Intent:   u.Intent,
			Message:  msg,
		})
	}
	return out
}

// DetectCannibalization flags units competing for the same query: shared H1s,
// titles or signatures across all units, and H2 overlap within an intent.
func DetectCannibalization(units []core.ContentUnit) []core.Finding {
	var out []core.Finding
	out = append(out, duplicates(units, RuleDuplicateH1, core.PriorityP1, "H1",
		func(u core.ContentUnit) string { return normalizeHeading(u.H1) })...)
	out = append(out, duplicates(units, RuleDuplicateTitle, core.PriorityP1, "title",
		func(u core.ContentUnit) string { return normalizeHeading(u.Title) })...)
	out = append(out, duplicates(units, RuleDuplicateSignature, core.PriorityP0, "body signature",
		func(u core.ContentUnit) string {
			if u.WordCount == 0 {
				return ""
			}
			return u.Signature
		})...)
	out = append(out, h2Overlap(units)...)
	return out
}

func duplicates(units []core.ContentUnit, rule string, p core.Priority, label string, key func(core.ContentUnit) string) []core.Finding {
	groups := make(map[string][]string)
	var order []string
	for _, u := range units {
		k := key(u)
		if k == "" {
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], u.ID)
	}

	var out []core.Finding
	for _, k := range order {
		ids := groups[k]
		if len(ids) < 2 {
			continue
		}
		out = append(out, core.Finding{
			ID:       rule + ":" + strings.Join(ids, "+"),
			Kind:     core.FindingCannibalization,
			Rule:     rule,
			Priority: p,
			Units:    ids,
			Message:  fmt.Sprintf("%d units share the same %s %q", len(ids), label, k),
		})
	}
	return out
}

func h2Overlap(units []core.ContentUnit) []core.Finding {
	var out []core.Finding
	for i := 0; i < len(units); i++ {
		a := units[i]
		if a.Intent == "" || len(a.H2) < MinH2Overlap {
			continue
		}
		setA := headingSet(a.H2)
		for j := i + 1; j < len(units); j++ {
			b := units[j]
			if b.Intent != a.Intent {
				continue
			}
			var shared []string
			for _, h := range b.H2 {
				n := normalizeHeading(h)
				if _, ok := setA[n]; ok && !slices.Contains(shared, n) {
					shared = append(shared, n)
				}
			}
			if len(shared) < MinH2Overlap {
				continue
			}
			out = append(out, core.Finding{
				ID:       RuleH2Overlap + ":" + a.ID + "+" + b.ID,
				Kind:     core.FindingCannibalization,
				Rule:     RuleH2Overlap,
				Priority: core.PriorityP2,
				Units:    []string{a.ID, b.ID},
				Intent:   a.Intent,
				Message:  fmt.Sprintf("%d shared H2s: %s", len(shared), strings.Join(shared, ", ")),
			})
		}
	}
	return out
}

func headingSet(hs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(hs))
	for _, h := range hs {
		if n := normalizeHeading(h); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// SortFindings orders findings by priority, then ID.
func SortFindings(fs []core.Finding) {
	slices.SortStableFunc(fs, func(a, b core.Finding) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

package commands

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/atlas/internal/cli/output"
	"github.com/leapstack-labs/atlas/pkg/core"
)

// routeFields is the display order of route fields.
var routeFields = []string{
	"title", "description", "canonical",
	"og_title", "og_description", "og_image",
	"twitter_card", "indexable", "in_sitemap",
}

var titleCaser = cases.Title(language.English)

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func coverageStyle(s *output.Styles, c core.Coverage) lipgloss.Style {
	switch c {
	case core.CoverageEnforced:
		return s.Success
	case core.CoveragePartial:
		return s.Warning
	case core.CoverageGap:
		return s.Error
	default:
		return s.Info
	}
}

func verdictMark(s *output.Styles, v core.Verdict) string {
	switch v {
	case core.VerdictPass:
		return s.StatusSuccess.String()
	case core.VerdictWarn:
		return s.StatusWarn.String()
	default:
		return s.StatusFailed.String()
	}
}

// heading renders a report title, marking snapshots served from the cache.
func heading(s *output.Styles, title string, hit bool) string {
	if hit {
		return s.Header1.Render(title) + " " + s.Muted.Render("(cached)")
	}
	return s.Header1.Render(title)
}

// missingGates lists required gates absent from the workflow.
func missingGates(inv core.Invariant) []string {
	var out []string
	for _, g := range inv.RequiredGates {
		if !slices.Contains(inv.PresentGates, g) {
			out = append(out, g)
		}
	}
	return out
}

// =============================================================================
// ESA
// =============================================================================

func renderESA(r *output.Renderer, snap *core.ESASnapshot, hit bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(snap)
	case output.ModeMarkdown:
		esaMarkdown(r, snap)
	default:
		esaText(r, snap, hit)
	}
	return nil
}

func esaMarkdown(r *output.Renderer, snap *core.ESASnapshot) {
	r.Println("# ESA snapshot")
	r.Println()
	r.Printf("- Repository: %s@%s\n", snap.Repo, snap.Ref)
	r.Printf("- Commit: %s\n", shortSHA(snap.CommitSHA))
	r.Printf("- Generated: %s\n", stamp(snap.GeneratedAt))
	tree := strconv.Itoa(snap.TreeSize) + " entries"
	if snap.TreeTruncated {
		tree += " (truncated)"
	}
	r.Printf("- Tree: %s\n", tree)
	r.Printf("- Enforcements: %d\n", snap.Summary.Total)

	r.Println()
	r.Println("## Coverage")
	r.Println()
	for _, c := range core.Coverages() {
		r.Printf("- %s: %d\n", c, snap.Summary.ByCoverage[c])
	}

	if len(snap.Invariants) > 0 {
		r.Println()
		r.Println("## Invariants")
		r.Println()
		for _, inv := range snap.Invariants {
			r.Printf("- **%s** %s (%s): %s\n", inv.ID, inv.Label, inv.Plane, inv.Coverage)
			if missing := missingGates(inv); len(missing) > 0 {
				r.Printf("  - missing gates: %s\n", strings.Join(missing, ", "))
			}
		}
	}

	if len(snap.Enforcements) > 0 {
		r.Println()
		r.Println("## Enforcements")
		r.Println()
		for _, e := range snap.Enforcements {
			r.Printf("- **%s** [%s] %s, %s: %s\n", e.ID, e.Status, e.Plane, e.Coverage, e.Description)
			if missing := e.MissingRefs(); len(missing) > 0 {
				r.Printf("  - missing refs: %s\n", strings.Join(missing, ", "))
			}
		}
	}

	markdownWarnings(r, snap.Warnings)
}

func esaText(r *output.Renderer, snap *core.ESASnapshot, hit bool) {
	s := r.Styles()
	r.Println(heading(s, "ESA Snapshot", hit))
	r.Printf("%s %s@%s %s\n", s.Muted.Render("Repository:"), snap.Repo, snap.Ref, s.Muted.Render(shortSHA(snap.CommitSHA)))
	r.Printf("%s %s\n", s.Muted.Render("Generated:"), stamp(snap.GeneratedAt))
	r.Println()

	parts := make([]string, 0, len(core.Coverages()))
	for _, c := range core.Coverages() {
		parts = append(parts, coverageStyle(s, c).Render(fmt.Sprintf("%s %d", c, snap.Summary.ByCoverage[c])))
	}
	r.Printf("%s %s\n", s.Bold.Render(fmt.Sprintf("%d enforcements:", snap.Summary.Total)), strings.Join(parts, "  "))

	if len(snap.Invariants) > 0 {
		r.Println()
		r.Println(s.Header2.Render("Invariants"))
		rows := make([][]string, 0, len(snap.Invariants))
		for _, inv := range snap.Invariants {
			rows = append(rows, []string{
				inv.ID, inv.Label, titleCaser.String(string(inv.Plane)),
				string(inv.Coverage), strings.Join(missingGates(inv), ", "),
			})
		}
		r.Table([]string{"ID", "Invariant", "Plane", "Coverage", "Missing gates"}, rows)
	}

	if len(snap.Enforcements) > 0 {
		r.Println()
		r.Println(s.Header2.Render("Enforcements"))
		rows := make([][]string, 0, len(snap.Enforcements))
		for _, e := range snap.Enforcements {
			rows = append(rows, []string{
				e.ID, string(e.Status), titleCaser.String(string(e.Plane)),
				string(e.Coverage), strings.Join(e.MissingRefs(), ", "),
			})
		}
		r.Table([]string{"ID", "Status", "Plane", "Coverage", "Missing refs"}, rows)
	}

	textWarnings(r, snap.Warnings)
}

// =============================================================================
// SEO
// =============================================================================

func renderSEO(r *output.Renderer, snap *core.SEOSnapshot, hit bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(snap)
	case output.ModeMarkdown:
		seoMarkdown(r, snap)
	default:
		seoText(r, snap, hit)
	}
	return nil
}

func indexLabel(rt *core.Route) string {
	if rt.IsIndexable() {
		return "indexable"
	}
	return "noindex"
}

func seoMarkdown(r *output.Renderer, snap *core.SEOSnapshot) {
	r.Println("# SEO snapshot")
	r.Println()
	r.Printf("- Site: %s\n", snap.SiteURL)
	r.Printf("- Generated: %s\n", stamp(snap.GeneratedAt))
	r.Printf("- Score: %d\n", snap.Score)
	r.Printf("- Routes: %d\n", len(snap.Routes))

	if len(snap.Gates) > 0 {
		r.Println()
		r.Println("## Gates")
		r.Println()
		for _, g := range snap.Gates {
			r.Printf("- [%s] **%s** %s (%s)\n", g.Verdict, g.ID, g.Name, g.Plane)
			for _, d := range g.Details {
				r.Printf("  - %s\n", d)
			}
		}
	}

	if len(snap.Routes) > 0 {
		r.Println()
		r.Println("## Routes")
		r.Println()
		for i := range snap.Routes {
			rt := &snap.Routes[i]
			r.Printf("- `%s` (%s, %s)\n", rt.Path, rt.Plane, indexLabel(rt))
			fields := rt.Fields()
			for _, name := range routeFields {
				f := fields[name]
				if f.Status == core.FieldOK {
					continue
				}
				if f.Hint != "" {
					r.Printf("  - %s: %s, %s\n", name, f.Status, f.Hint)
				} else {
					r.Printf("  - %s: %s\n", name, f.Status)
				}
			}
		}
	}

	markdownWarnings(r, snap.Warnings)
}

func seoText(r *output.Renderer, snap *core.SEOSnapshot, hit bool) {
	s := r.Styles()
	r.Println(heading(s, "SEO Snapshot", hit))
	r.Printf("%s %s\n", s.Muted.Render("Site:"), snap.SiteURL)
	r.Printf("%s %s\n", s.Muted.Render("Generated:"), stamp(snap.GeneratedAt))
	r.Printf("%s %s\n", s.Muted.Render("Score:"), s.ScoreStyle(snap.Score).Render(strconv.Itoa(snap.Score)))
	r.Println()

	r.Println(s.Header2.Render("Gates"))
	for _, g := range snap.Gates {
		r.Printf("  %s %s %s %s\n", verdictMark(s, g.Verdict), s.Bold.Render(g.ID), g.Name, s.Muted.Render(titleCaser.String(string(g.Plane))))
		for _, d := range g.Details {
			r.Printf("      %s\n", s.Muted.Render(d))
		}
	}

	if len(snap.Routes) > 0 {
		r.Println()
		r.Println(s.Header2.Render("Routes"))
		rows := make([][]string, 0, len(snap.Routes))
		for i := range snap.Routes {
			rt := &snap.Routes[i]
			var issues []string
			fields := rt.Fields()
			for _, name := range routeFields {
				if f := fields[name]; f.Status != core.FieldOK {
					issues = append(issues, name+" "+string(f.Status))
				}
			}
			rows = append(rows, []string{rt.Path, string(rt.Plane), indexLabel(rt), strings.Join(issues, ", ")})
		}
		r.Table([]string{"Path", "Plane", "Index", "Issues"}, rows)
	}

	textWarnings(r, snap.Warnings)
}

// =============================================================================
// Content
// =============================================================================

func renderContent(r *output.Renderer, snap *core.ContentSnapshot, hit bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(snap)
	case output.ModeMarkdown:
		contentMarkdown(r, snap)
	default:
		contentText(r, snap, hit)
	}
	return nil
}

func contentMarkdown(r *output.Renderer, snap *core.ContentSnapshot) {
	r.Println("# Content coverage")
	r.Println()
	r.Printf("- Mode: %s\n", snap.Mode)
	if snap.BaseURL != "" {
		r.Printf("- Base URL: %s\n", snap.BaseURL)
	}
	r.Printf("- Generated: %s\n", stamp(snap.GeneratedAt))
	r.Printf("- Units: %d\n", len(snap.Units))
	r.Printf("- Findings: %d\n", len(snap.Findings))

	if len(snap.Personas) > 0 {
		r.Println()
		r.Println("## Personas")
		r.Println()
		for _, p := range snap.Personas {
			r.Printf("- **%s** %d: %d units, %d words, %d findings\n", p.Persona, p.Score, p.Units, p.Words, p.Findings)
			if len(p.MissingIntents) > 0 {
				r.Printf("  - missing intents: %s\n", strings.Join(p.MissingIntents, ", "))
			}
		}
	}

	if len(snap.Findings) > 0 {
		r.Println()
		r.Println("## Findings")
		r.Println()
		for _, f := range snap.Findings {
			r.Printf("- **%s** %s/%s (%s): %s\n", f.Priority, f.Kind, f.Rule, strings.Join(f.Units, ", "), f.Message)
		}
	}

	markdownWarnings(r, snap.Warnings)
}

func contentText(r *output.Renderer, snap *core.ContentSnapshot, hit bool) {
	s := r.Styles()
	r.Println(heading(s, "Content Coverage", hit))
	r.Printf("%s %s\n", s.Muted.Render("Mode:"), snap.Mode)
	if snap.BaseURL != "" {
		r.Printf("%s %s\n", s.Muted.Render("Base URL:"), snap.BaseURL)
	}
	r.Printf("%s %s\n", s.Muted.Render("Generated:"), stamp(snap.GeneratedAt))
	r.Println()

	if len(snap.Personas) > 0 {
		r.Println(s.Header2.Render("Personas"))
		rows := make([][]string, 0, len(snap.Personas))
		for _, p := range snap.Personas {
			rows = append(rows, []string{
				p.Persona, s.ScoreStyle(p.Score).Render(strconv.Itoa(p.Score)),
				strconv.Itoa(p.Units), strconv.Itoa(p.Words), strconv.Itoa(p.Findings),
				strings.Join(p.MissingIntents, ", "),
			})
		}
		r.Table([]string{"Persona", "Score", "Units", "Words", "Findings", "Missing intents"}, rows)
	}

	if len(snap.Findings) > 0 {
		r.Println()
		r.Println(s.Header2.Render("Findings"))
		for _, f := range snap.Findings {
			style := s.Warning
			if f.Priority == core.PriorityP0 {
				style = s.Error
			}
			r.Printf("  %s %s %s\n", style.Render(string(f.Priority)), s.Bold.Render(string(f.Kind)+"/"+f.Rule), f.Message)
		}
	} else {
		r.Println(s.Success.Render("No findings."))
	}

	textWarnings(r, snap.Warnings)
}

// =============================================================================
// History
// =============================================================================

func renderHistory(r *output.Renderer, headers []core.SnapshotHeader) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(headers)
	case output.ModeMarkdown:
		r.Println("# Snapshot history")
		r.Println()
		if len(headers) == 0 {
			r.Println("No archived snapshots.")
			return nil
		}
		for _, h := range headers {
			r.Printf("- %s **%s** score %d, %d items, %d warnings (`%s`)\n",
				stamp(h.GeneratedAt), h.Kind, h.Score, h.Items, h.Warnings, h.ID)
		}
	default:
		s := r.Styles()
		r.Println(s.Header1.Render("Snapshot History"))
		if len(headers) == 0 {
			r.Println(s.Muted.Render("No archived snapshots."))
			return nil
		}
		rows := make([][]string, 0, len(headers))
		for _, h := range headers {
			rows = append(rows, []string{
				stamp(h.GeneratedAt), string(h.Kind), s.ScoreStyle(h.Score).Render(strconv.Itoa(h.Score)),
				strconv.Itoa(h.Items), strconv.Itoa(h.Warnings), h.ID,
			})
		}
		r.Table([]string{"Generated", "Kind", "Score", "Items", "Warnings", "ID"}, rows)
	}
	return nil
}

func markdownWarnings(r *output.Renderer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	r.Println()
	r.Println("## Warnings")
	r.Println()
	for _, w := range warnings {
		r.Printf("- %s\n", w)
	}
}

func textWarnings(r *output.Renderer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	s := r.Styles()
	r.Println()
	for _, w := range warnings {
		r.Printf("%s %s\n", s.StatusWarn.String(), s.Warning.Render(w))
	}
}

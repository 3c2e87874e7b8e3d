package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/atlas/internal/cli/output"
	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/leapstack-labs/atlas/pkg/gate"
	_ "github.com/leapstack-labs/atlas/pkg/gate/gates" // register SEO gates
)

// GateInfo describes a registered gate for output.
type GateInfo struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Plane       core.SEOPlane `json:"plane"`
	Description string        `json:"description"`
	Rationale   string        `json:"rationale,omitempty"`
	Fix         string        `json:"fix,omitempty"`
	Enabled     bool          `json:"enabled"`
}

// NewGatesCommand creates the gates command.
func NewGatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gates [gate-id]",
		Short: "List the SEO gates",
		Long: `List the SEO gates evaluated by "atlas snapshot seo".

Gates listed under seo.disabled_gates in atlas.yaml are marked disabled.
Pass a gate ID to show its rationale and fix guidance.`,
		Example: `  # List all gates
  atlas gates

  # Show details for one gate
  atlas gates G3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			infos := gateInfos(cc.Cfg.SEO.DisabledGates)
			if len(args) == 1 {
				for _, info := range infos {
					if info.ID == args[0] {
						return renderGate(cc.Renderer, info)
					}
				}
				return fmt.Errorf("unknown gate %q", args[0])
			}
			return renderGates(cc.Renderer, infos)
		},
	}
}

func gateInfos(disabled []string) []GateInfo {
	defs := gate.GetAll()
	infos := make([]GateInfo, 0, len(defs))
	for _, d := range defs {
		infos = append(infos, GateInfo{
			ID:          d.ID,
			Name:        d.Name,
			Plane:       d.Plane,
			Description: d.Description,
			Rationale:   d.Rationale,
			Fix:         d.Fix,
			Enabled:     !slices.Contains(disabled, d.ID),
		})
	}
	return infos
}

func renderGates(r *output.Renderer, infos []GateInfo) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeMarkdown:
		r.Println("# SEO gates")
		r.Println()
		for _, g := range infos {
			suffix := ""
			if !g.Enabled {
				suffix = " _(disabled)_"
			}
			r.Printf("- **%s** %s (%s): %s%s\n", g.ID, g.Name, g.Plane, g.Description, suffix)
		}
	default:
		s := r.Styles()
		r.Println(s.Header1.Render("SEO Gates"))
		rows := make([][]string, 0, len(infos))
		for _, g := range infos {
			state := s.Success.Render("enabled")
			if !g.Enabled {
				state = s.Muted.Render("disabled")
			}
			rows = append(rows, []string{g.ID, g.Name, titleCaser.String(string(g.Plane)), state})
		}
		r.Table([]string{"ID", "Name", "Plane", "State"}, rows)
	}
	return nil
}

func renderGate(r *output.Renderer, g GateInfo) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(g)
	}
	s := r.Styles()
	r.Println(s.Header1.Render(g.ID + " " + g.Name))
	r.Println()
	r.Printf("%s %s\n", s.Muted.Render("Plane:"), g.Plane)
	if !g.Enabled {
		r.Println(s.Warning.Render("Disabled in configuration."))
	}
	r.Println()
	r.Println(g.Description)
	if g.Rationale != "" {
		r.Println()
		r.Println(s.Header2.Render("Rationale"))
		r.Println(g.Rationale)
	}
	if g.Fix != "" {
		r.Println()
		r.Println(s.Header2.Render("Fix"))
		r.Println(g.Fix)
	}
	return nil
}

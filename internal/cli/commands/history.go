package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/atlas/internal/state"
	"github.com/leapstack-labs/atlas/pkg/core"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		limit int
		prune int
	)
	cmd := &cobra.Command{
		Use:       "history [esa|seo|content]",
		Short:     "List archived snapshots",
		Long:      `List snapshot headers from the state database, newest first.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(core.KindESA), string(core.KindSEO), string(core.KindContent)},
		Example: `  # Recent snapshots of every kind
  atlas history

  # Last 5 SEO snapshots as JSON
  atlas history seo --limit 5 -o json

  # Keep only the 10 newest content snapshots
  atlas history content --prune 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc := NewCommandContext(cmd)

			var kind core.SnapshotKind
			if len(args) == 1 {
				kind = core.SnapshotKind(args[0])
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			store, err := openStore(cc.Cfg.StatePath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if cmd.Flags().Changed("prune") {
				if prune < 0 {
					return fmt.Errorf("--prune must not be negative")
				}
				kinds := []core.SnapshotKind{kind}
				if kind == "" {
					kinds = []core.SnapshotKind{core.KindESA, core.KindSEO, core.KindContent}
				}
				for _, k := range kinds {
					n, err := store.Prune(ctx, k, prune)
					if err != nil {
						return err
					}
					cc.Logger.Info("snapshots pruned", "kind", k, "removed", n)
				}
			}

			headers, err := store.List(ctx, kind, limit)
			if err != nil {
				return err
			}
			return renderHistory(cc.Renderer, headers)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", state.DefaultListLimit, "Maximum number of snapshots to list")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete all but the newest N snapshots first")
	return cmd
}

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/atlas/internal/snapshot"
	"github.com/leapstack-labs/atlas/pkg/core"
)

// SnapshotOptions holds the flags shared by the snapshot subcommands.
type SnapshotOptions struct {
	Save  bool   // archive the snapshot in the state database
	Fresh bool   // drop any cached snapshot before building
	Live  string // crawl this base URL instead of the static catalog
}

// NewSnapshotCommand creates the snapshot command and its subcommands.
func NewSnapshotCommand() *cobra.Command {
	opts := &SnapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Build a governance, SEO or content snapshot",
		Long: `Build one snapshot and print it.

Snapshots are built from the configured sources:
  esa      enforcement registry and tree of the governed GitHub repository
  seo      route metadata, sitemap, robots and workflows of the site checkout
  content  persona/intent coverage of the static catalog or a live crawl

Output adapts to environment:
  - Terminal: Styled output with tables
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Governance snapshot as JSON
  atlas snapshot esa -o json

  # SEO snapshot, archived for history
  atlas snapshot seo --save

  # Content coverage from a live crawl
  atlas snapshot content --live https://example.com`,
	}

	cmd.PersistentFlags().BoolVar(&opts.Save, "save", false, "Archive the snapshot in the state database")
	cmd.PersistentFlags().BoolVar(&opts.Fresh, "fresh", false, "Ignore cached snapshots")

	esaCmd := &cobra.Command{
		Use:   "esa",
		Short: "Snapshot enforcement coverage of the governed repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd, opts, core.KindESA)
		},
	}
	seoCmd := &cobra.Command{
		Use:   "seo",
		Short: "Snapshot SEO health of the site checkout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd, opts, core.KindSEO)
		},
	}
	contentCmd := &cobra.Command{
		Use:   "content",
		Short: "Snapshot persona and intent coverage of site content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd, opts, core.KindContent)
		},
	}
	contentCmd.Flags().StringVar(&opts.Live, "live", "", "Crawl the sitemap of this base URL")

	cmd.AddCommand(esaCmd, seoCmd, contentCmd)
	return cmd
}

func runSnapshot(cmd *cobra.Command, opts *SnapshotOptions, kind core.SnapshotKind) error {
	ctx := cmd.Context()
	cc := NewCommandContext(cmd)

	deps, err := buildDeps(ctx, cc.Cfg, cc.Logger, depsOptions{archive: opts.Save, sharedCache: true})
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()
	svc := deps.Service

	if opts.Fresh {
		if err := svc.Invalidate(ctx, kind); err != nil {
			cc.Logger.Warn("cache invalidation failed", "kind", kind, "error", err)
		}
		if kind == core.KindContent && opts.Live != "" {
			if err := svc.InvalidateLive(ctx, opts.Live); err != nil {
				cc.Logger.Warn("cache invalidation failed", "kind", kind, "base", opts.Live, "error", err)
			}
		}
	}

	var (
		header core.SnapshotHeader
		snap   any
	)
	switch kind {
	case core.KindESA:
		s, hit, err := svc.ESA(ctx)
		if err != nil {
			return err
		}
		header, snap = snapshot.ESAHeader(s), s
		if err := renderESA(cc.Renderer, s, hit); err != nil {
			return err
		}
	case core.KindSEO:
		s, hit, err := svc.SEO(ctx)
		if err != nil {
			return err
		}
		header, snap = snapshot.SEOHeader(s), s
		if err := renderSEO(cc.Renderer, s, hit); err != nil {
			return err
		}
	case core.KindContent:
		mode := core.ContentStatic
		if opts.Live != "" {
			mode = core.ContentLive
		}
		s, hit, err := svc.Content(ctx, mode, opts.Live)
		if err != nil {
			return err
		}
		header, snap = snapshot.ContentHeader(s), s
		if err := renderContent(cc.Renderer, s, hit); err != nil {
			return err
		}
	}

	if !opts.Save {
		return nil
	}
	if err := saveSnapshot(ctx, svc, header, snap); err != nil {
		return err
	}
	cc.Logger.Info("snapshot archived", "kind", kind, "id", header.ID, "state", deps.Store.Path())
	return nil
}

func saveSnapshot(ctx context.Context, svc *snapshot.Service, h core.SnapshotHeader, snap any) error {
	if err := svc.Save(ctx, h, snap); err != nil {
		return fmt.Errorf("failed to archive %s snapshot: %w", h.Kind, err)
	}
	return nil
}

package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/atlas/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr    string
	Watch   bool
	Refresh time.Duration
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve snapshots over HTTP",
		Long: `Start the snapshot API.

The server provides:
- /api/esa-snapshot, /api/seo-snapshot and /api/content-coverage
- /api/snapshots archive history and /api/updates live refresh events
- /robots.txt, /sitemap.xml and /og images for the site
- /metrics and /healthz

Snapshots are cached (memory or redis), rebuilt when SEO sources change
and on the refresh interval.`,
		Example: `  # Serve on the configured address
  atlas serve

  # Serve on another port without the file watcher
  atlas serve --addr :9090 --watch=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default from server.addr)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Rebuild the SEO snapshot when site sources change")
	cmd.Flags().DurationVar(&opts.Refresh, "refresh", 0, "Rebuild interval (default: cache TTL, negative disables)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg

	addr := cfg.Server.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}
	watch := cfg.Server.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}
	refresh := cfg.Server.RefreshInterval
	if cmd.Flags().Changed("refresh") {
		refresh = opts.Refresh
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildDeps(ctx, cfg, cc.Logger, depsOptions{archive: true, sharedCache: true, metrics: true})
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	srvCfg := server.Config{
		Addr:             addr,
		Service:          deps.Service,
		SiteURL:          cfg.SiteURL,
		RobotsDisallow:   cfg.Server.RobotsDisallow,
		RefreshInterval:  refresh,
		SessionSecret:    cfg.Server.SessionSecret,
		Brands:           cfg.Server.Brands,
		DefaultBrand:     cfg.Server.DefaultBrand,
		ReferrerPersonas: cfg.Server.ReferrerPersonas,
		Metrics:          deps.Metrics,
		Logger:           cc.Logger,
	}
	if watch {
		srvCfg.WatchDir = cfg.SEO.SiteRoot
	}
	if srvCfg.SessionSecret == "" {
		cc.Renderer.Warning("server.session_secret is not set; attribution cookies will not survive a restart")
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Serving snapshots on %s\n", addr)
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Press Ctrl+C to stop")
	return srv.Serve(ctx)
}

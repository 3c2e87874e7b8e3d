// Package commands implements the atlas subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/atlas/internal/cache"
	"github.com/leapstack-labs/atlas/internal/cli/config"
	"github.com/leapstack-labs/atlas/internal/cli/output"
	"github.com/leapstack-labs/atlas/internal/coverage"
	"github.com/leapstack-labs/atlas/internal/esa"
	"github.com/leapstack-labs/atlas/internal/github"
	"github.com/leapstack-labs/atlas/internal/metrics"
	"github.com/leapstack-labs/atlas/internal/seo"
	"github.com/leapstack-labs/atlas/internal/snapshot"
	"github.com/leapstack-labs/atlas/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
}

// depsOptions selects the optional components of Deps.
type depsOptions struct {
	// archive opens the state database.
	archive bool
	// sharedCache uses the configured cache backend instead of a private
	// in-memory one.
	sharedCache bool
	metrics     bool
}

// Deps are the components a command composes into a snapshot service.
type Deps struct {
	Service *snapshot.Service
	Store   *state.Store
	Metrics *metrics.Registry

	closers []func() error
}

// Close releases the cache and the state database.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

// buildDeps wires builders, cache, archive and metrics from cfg. The caller
// must Close the result.
func buildDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts depsOptions) (*Deps, error) {
	d := &Deps{}

	gh := github.New(github.Config{
		BaseURL: cfg.ESA.APIURL,
		Token:   cfg.ESA.Token,
		Timeout: cfg.ESA.Timeout,
		Logger:  logger,
	})
	esaBuilder := esa.NewBuilder(esa.Config{
		Repo:         cfg.ESA.Repo,
		Ref:          cfg.ESA.Ref,
		RegistryPath: cfg.ESA.RegistryPath,
		WorkflowPath: cfg.ESA.WorkflowPath,
		Token:        cfg.ESA.Token,
	}, gh, logger)
	seoBuilder := seo.NewBuilder(seo.Config{
		SiteRoot:      cfg.SEO.SiteRoot,
		SiteURL:       cfg.SiteURL,
		DisabledGates: cfg.SEO.DisabledGates,
	}, logger)
	analyzer := coverage.NewAnalyzer(coverage.Config{
		Rules:       cfg.Content.Rules,
		Concurrency: cfg.Content.Concurrency,
		Timeout:     cfg.Content.Timeout,
		MaxPages:    cfg.Content.MaxPages,
		Logger:      logger,
	})

	var c cache.Cache = cache.NewMemory()
	if opts.sharedCache {
		var err error
		if c, err = cache.New(ctx, cfg.Cache); err != nil {
			return nil, err
		}
	}
	d.closers = append(d.closers, c.Close)

	var archive snapshot.Archive
	if opts.archive {
		store, err := openStore(cfg.StatePath)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.Store = store
		d.closers = append(d.closers, store.Close)
		archive = store
		if v, err := store.MigrationVersion(); err == nil {
			logger.Debug("state store opened", "path", store.Path(), "schema", v)
		}
	}

	if opts.metrics {
		d.Metrics = metrics.NewRegistry()
	}

	d.Service = snapshot.New(snapshot.Config{
		ESA:         esaBuilder,
		SEO:         seoBuilder,
		Content:     analyzer,
		Cache:       c,
		TTL:         cfg.Cache.TTL,
		Archive:     archive,
		AutoArchive: cfg.Server.AutoArchive,
		LiveBaseURL: cfg.Content.BaseURL,
		Metrics:     d.Metrics,
		Logger:      logger,
	})
	return d, nil
}

// openStore opens the archive, creating its directory first.
func openStore(path string) (*state.Store, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	store := state.NewStore()
	if err := store.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return store, nil
}

package esa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/atlas/internal/github"
	"github.com/leapstack-labs/atlas/pkg/core"
	"github.com/leapstack-labs/atlas/pkg/registry"
)

// ErrUnavailable means no snapshot could be built: credentials are missing or
// a required input could not be fetched.
var ErrUnavailable = errors.New("esa snapshot unavailable")

// Defaults for Config.
const (
	DefaultRef          = "main"
	DefaultRegistryPath = "governance/enforcement-registry.yaml"
	DefaultWorkflowPath = ".github/workflows/governance.yml"
)

// Source is the subset of the GitHub client the builder needs.
type Source interface {
	Commit(ctx context.Context, repo github.Repo, ref string) (*github.Commit, error)
	Tree(ctx context.Context, repo github.Repo, sha string) (*github.Tree, error)
	Contents(ctx context.Context, repo github.Repo, path, ref string) ([]byte, error)
}

// Config selects the governed repository.
type Config struct {
	Repo         string // owner/name
	Ref          string
	RegistryPath string
	WorkflowPath string
	// Token must be non-empty; the builder refuses to run anonymously.
	Token string
}

// Builder assembles ESA snapshots.
type Builder struct {
	cfg    Config
	src    Source
	logger *slog.Logger
	now    func() time.Time
}

// NewBuilder creates a builder. A nil logger discards output.
func NewBuilder(cfg Config, src Source, logger *slog.Logger) *Builder {
	if cfg.Ref == "" {
		cfg.Ref = DefaultRef
	}
	if cfg.RegistryPath == "" {
		cfg.RegistryPath = DefaultRegistryPath
	}
	if cfg.WorkflowPath == "" {
		cfg.WorkflowPath = DefaultWorkflowPath
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{cfg: cfg, src: src, logger: logger, now: time.Now}
}

// Build fetches all inputs concurrently and assembles a snapshot. Any error
// wraps ErrUnavailable. A missing workflow only adds a warning.
func (b *Builder) Build(ctx context.Context) (*core.ESASnapshot, error) {
	if b.cfg.Token == "" || b.cfg.Repo == "" || b.src == nil {
		b.logger.Warn("esa snapshot skipped: repository or token not configured", "repo", b.cfg.Repo)
		return nil, fmt.Errorf("%w: repository or token not configured", ErrUnavailable)
	}
	repo, err := github.ParseRepo(b.cfg.Repo)
	if err != nil {
		b.logger.Warn("esa snapshot skipped", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var (
		commit      *github.Commit
		tree        *github.Tree
		registryRaw []byte
		workflowRaw []byte
		workflowErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := b.src.Commit(gctx, repo, b.cfg.Ref)
		if err != nil {
			return err
		}
		t, err := b.src.Tree(gctx, repo, c.SHA)
		if err != nil {
			return err
		}
		commit, tree = c, t
		return nil
	})
	g.Go(func() error {
		data, err := b.src.Contents(gctx, repo, b.cfg.RegistryPath, b.cfg.Ref)
		if err != nil {
			return fmt.Errorf("registry: %w", err)
		}
		registryRaw = data
		return nil
	})
	g.Go(func() error {
		// optional input, never fails the group
		workflowRaw, workflowErr = b.src.Contents(gctx, repo, b.cfg.WorkflowPath, b.cfg.Ref)
		return nil
	})
	if err := g.Wait(); err != nil {
		b.logger.Warn("esa snapshot aborted", "repo", repo.String(), "ref", b.cfg.Ref, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	snap := &core.ESASnapshot{
		ID:            uuid.NewString(),
		GeneratedAt:   b.now().UTC(),
		Repo:          repo.String(),
		Ref:           b.cfg.Ref,
		CommitSHA:     commit.SHA,
		TreeSize:      len(tree.Entries),
		TreeTruncated: tree.Truncated,
		CIGates:       []string{},
	}
	if tree.Truncated {
		snap.Warnings = append(snap.Warnings, "tree listing truncated; some code refs may be reported missing")
	}

	parsed := registry.Parse(registryRaw)
	if parsed.Method == registry.MethodRegex {
		b.logger.Info("registry fell back to regex extraction", "error", parsed.StrictErr)
		snap.Warnings = append(snap.Warnings, "registry is not valid YAML; fields were extracted line by line")
	}
	snap.Enforcements = registry.Classify(parsed.Entries, registry.NewTree(tree.Files(), tree.Dirs()))

	switch {
	case workflowErr != nil:
		b.logger.Warn("governance workflow unavailable", "path", b.cfg.WorkflowPath, "error", workflowErr)
		snap.Warnings = append(snap.Warnings, fmt.Sprintf("workflow %s unavailable: %v", b.cfg.WorkflowPath, workflowErr))
	default:
		gates, err := WorkflowGates(workflowRaw)
		if err != nil {
			b.logger.Warn("governance workflow unreadable", "path", b.cfg.WorkflowPath, "error", err)
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("workflow %s unreadable: %v", b.cfg.WorkflowPath, err))
		} else {
			snap.CIGates = gates
		}
	}

	snap.Invariants = EvaluateInvariants(DefaultInvariants(), snap.CIGates)
	snap.Summary = Summarize(snap.Enforcements)

	b.logger.Debug("esa snapshot built",
		"repo", snap.Repo,
		"commit", snap.CommitSHA,
		"enforcements", len(snap.Enforcements),
		"gates", len(snap.CIGates))
	return snap, nil
}

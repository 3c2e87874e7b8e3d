package server

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/atlas/internal/seo"
	"github.com/leapstack-labs/atlas/pkg/core"
)

// watchDebounce coalesces editor save bursts into one rebuild.
const watchDebounce = 100 * time.Millisecond

// watchFiles rebuilds the SEO snapshot when one of its source files changes.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	root := s.cfg.WatchDir
	for _, dir := range watchDirs() {
		if err := watcher.Add(filepath.Join(root, filepath.FromSlash(dir))); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				s.logger.Debug("watch directory missing", "dir", dir)
				continue
			}
			s.logger.Error("failed to watch directory", "dir", dir, "error", err)
		}
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			rel, err := filepath.Rel(root, event.Name)
			if err != nil || !isSEOSource(filepath.ToSlash(rel)) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				s.logger.Debug("seo source changed, rebuilding", "file", rel)
				if _, err := s.svc.Refresh(ctx, core.KindSEO); err != nil {
					s.logger.Error("seo rebuild failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirs returns the directories holding SEO sources, relative to the
// site root.
func watchDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	for _, f := range seo.SourceFiles() {
		add(path.Dir(f))
	}
	add(".github/workflows")
	return dirs
}

func isSEOSource(rel string) bool {
	for _, f := range seo.SourceFiles() {
		if rel == f {
			return true
		}
	}
	ok, _ := doublestar.Match(seo.WorkflowGlob, rel)
	return ok
}

// refreshLoop rebuilds every snapshot kind on each tick. Failures are logged
// and retried on the next tick.
func (s *Server) refreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, kind := range []core.SnapshotKind{core.KindESA, core.KindSEO, core.KindContent} {
				if _, err := s.svc.Refresh(ctx, kind); err != nil {
					s.logger.Warn("background refresh failed", "kind", kind, "error", err)
				}
			}
		}
	}
}

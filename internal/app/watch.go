package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/stratum/internal/adapters/watcher"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/engine/driver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch builds once and then rebuilds req whenever watched sources change, until ctx
// is cancelled. Failed builds are logged and do not stop the loop.
func (a *App) Watch(ctx context.Context, projectDir string, req domain.BuildRequest) error {
	settings, err := a.load(projectDir)
	if err != nil {
		return err
	}
	defer a.shutdownTracer(context.WithoutCancel(ctx))

	drv := a.newDriver(settings)
	a.rebuild(ctx, drv, req)
	// Only the first build honors the cache bypass.
	req.NoCache = false

	scope := newWatchScope(settings)
	if err := a.watcher.Start(ctx, settings.ProjectRoot, scope.ignore); err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}
	defer func() { _ = a.watcher.Stop() }()

	a.logger.Info(fmt.Sprintf("Watching %s for changes...", settings.ProjectRoot))

	// One pending batch is enough: a queued rebuild picks up every later change.
	pending := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(settings.Watch.Debounce, func(paths []string) {
		select {
		case pending <- paths:
		default:
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for event := range a.watcher.Events() {
			if scope.relevant(event.Path) {
				debouncer.Add(event.Path)
			}
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-pending:
				a.logger.Info(fmt.Sprintf("%d file(s) changed, rebuilding...", len(paths)))
				a.rebuild(ctx, drv, req)
			}
		}
	})
	return g.Wait()
}

func (a *App) rebuild(ctx context.Context, drv *driver.Driver, req domain.BuildRequest) {
	if _, err := drv.Build(ctx, req); err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
}

// watchScope decides which file system events trigger a rebuild.
type watchScope struct {
	paths  []string
	ignore []string
}

func newWatchScope(s *domain.Settings) watchScope {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(s.ProjectRoot, p)
	}

	var scope watchScope
	for _, p := range s.Watch.Paths {
		scope.paths = append(scope.paths, abs(p))
	}

	// Generated outputs live inside watched trees; rebuilding on them would loop.
	scope.ignore = append(scope.ignore,
		abs(s.BuildRoot),
		abs(domain.StateDirName),
	)
	for _, p := range []string{s.Fonts.COutDir, s.Fonts.HOutDir} {
		if p != "" {
			scope.ignore = append(scope.ignore, abs(p))
		}
	}
	for _, p := range s.Watch.Ignore {
		scope.ignore = append(scope.ignore, abs(p))
	}
	return scope
}

// relevant reports whether path is inside a watched path and outside every ignored one.
// An empty path list watches the whole project.
func (s watchScope) relevant(path string) bool {
	path = filepath.Clean(path)
	for _, ignored := range s.ignore {
		if within(path, ignored) {
			return false
		}
	}
	if len(s.paths) == 0 {
		return true
	}
	for _, watched := range s.paths {
		if within(path, watched) {
			return true
		}
	}
	return false
}

func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

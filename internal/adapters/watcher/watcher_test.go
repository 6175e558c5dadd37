package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stratum/internal/adapters/watcher"
	"go.trai.ch/stratum/internal/core/ports"
)

func collect(w *watcher.Watcher) <-chan ports.WatchEvent {
	out := make(chan ports.WatchEvent, 64)
	go func() {
		defer close(out)
		for ev := range w.Events() {
			out <- ev
		}
	}()
	return out
}

// waitFor returns the first event on path and every event seen before it.
func waitFor(t *testing.T, events <-chan ports.WatchEvent, path string) (ports.WatchEvent, []ports.WatchEvent) {
	t.Helper()
	var skipped []ports.WatchEvent
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed before %s", path)
			if ev.Path == path {
				return ev, skipped
			}
			skipped = append(skipped, ev)
		case <-deadline:
			t.Fatalf("timed out waiting for event on %s", path)
		}
	}
}

func TestWatcher_ReportsChangesOutsideIgnoredPaths(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	build := filepath.Join(root, "build")
	require.NoError(t, os.MkdirAll(src, 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(build, "desktop"), 0o750))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher(nil)
	require.NoError(t, w.Start(ctx, root, []string{build}))
	defer func() { _ = w.Stop() }()
	events := collect(w)

	require.NoError(t, os.WriteFile(filepath.Join(build, "desktop", "CMakeCache.txt"), []byte("x"), 0o600))
	target := filepath.Join(src, "widget.c")
	require.NoError(t, os.WriteFile(target, []byte("int x;"), 0o600))

	ev, before := waitFor(t, events, target)
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)
	for _, skipped := range before {
		assert.False(t, strings.HasPrefix(skipped.Path, build), "ignored path reported: %s", skipped.Path)
	}
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher(nil)
	require.NoError(t, w.Start(ctx, root, nil))
	defer func() { _ = w.Stop() }()
	events := collect(w)

	dir := filepath.Join(root, "include")
	require.NoError(t, os.Mkdir(dir, 0o750))
	_, _ = waitFor(t, events, dir)

	// Give the watcher a moment to register the new directory.
	time.Sleep(50 * time.Millisecond)
	header := filepath.Join(dir, "widget.h")
	require.NoError(t, os.WriteFile(header, []byte("#pragma once"), 0o600))
	_, _ = waitFor(t, events, header)
}

func TestWatcher_StopBeforeStart(t *testing.T) {
	w := watcher.NewWatcher(nil)
	assert.NoError(t, w.Stop())
}

func TestWatcher_EventsEndOnCancel(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	w := watcher.NewWatcher(nil)
	require.NoError(t, w.Start(ctx, root, nil))
	defer func() { _ = w.Stop() }()
	events := collect(w)

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end after cancellation")
	}
}

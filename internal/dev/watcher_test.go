package dev

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_shouldWatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		path     string
		want     bool
	}{
		{
			name:     "match ast file",
			patterns: []string{"*.ast.yaml"},
			exclude:  []string{},
			path:     "/project/tutorial.ast.yaml",
			want:     true,
		},
		{
			name:     "match nested ast file with ** pattern",
			patterns: []string{"**/*.ast.yaml"},
			exclude:  []string{},
			path:     "/project/idl/shared/shared.ast.yaml",
			want:     true,
		},
		{
			name:     "exclude generated rust",
			patterns: []string{"*"},
			exclude:  []string{"*.rs"},
			path:     "/project/src/tutorial/mod.rs",
			want:     false,
		},
		{
			name:     "no match",
			patterns: []string{"*.ast.yaml", "*.ast.json"},
			exclude:  []string{},
			path:     "/project/readme.md",
			want:     false,
		},
		{
			name:     "exclude overrides pattern",
			patterns: []string{"*.ast.yaml"},
			exclude:  []string{"scratch.ast.yaml"},
			path:     "/project/scratch.ast.yaml",
			want:     false,
		},
		{
			name:     "match json handoff",
			patterns: []string{"*.ast.yaml", "**/*.ast.json"},
			exclude:  []string{},
			path:     "/project/idl/tutorial.ast.json",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := &FileWatcher{
				patterns: tt.patterns,
				exclude:  tt.exclude,
			}

			got := fw.shouldWatch(tt.path)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileWatcher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	idlDir := filepath.Join(tmpDir, "idl")
	require.NoError(t, os.MkdirAll(idlDir, 0755))

	var events []string
	var eventsMu sync.Mutex

	onChange := func(path string, op fsnotify.Op) {
		eventsMu.Lock()
		defer eventsMu.Unlock()
		events = append(events, filepath.Base(path))
	}

	fw, err := NewFileWatcher(
		[]string{"*.ast.yaml", "**/*.ast.yaml"},
		[]string{"*.rs", "target"},
		zerolog.Nop(),
		onChange,
	)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.AddDirectory(tmpDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- fw.Start(ctx)
	}()

	// Give watcher time to start
	time.Sleep(100 * time.Millisecond)

	// Test: matching files trigger, others do not
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "tutorial.ast.yaml"), []byte("name: t"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "mod.rs"), []byte("// out"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(idlDir, "shared.ast.yaml"), []byte("name: s"), 0644))

	targetDir := filepath.Join(tmpDir, "target")
	require.NoError(t, os.MkdirAll(targetDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(targetDir, "stale.ast.yaml"), []byte("name: x"), 0644))

	time.Sleep(200 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errChan, context.Canceled)

	eventsMu.Lock()
	defer eventsMu.Unlock()

	names := make(map[string]bool)
	for _, e := range events {
		names[e] = true
	}
	assert.True(t, names["tutorial.ast.yaml"], "Expected event for tutorial.ast.yaml")
	assert.True(t, names["shared.ast.yaml"], "Expected event for idl/shared.ast.yaml")
	assert.False(t, names["mod.rs"], "Should not have event for mod.rs")
}

func TestFileWatcher_AddDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	for _, dir := range []string{"idl", "idl/shared", "target", ".git"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, dir), 0755))
	}

	fw, err := NewFileWatcher([]string{"*.ast.yaml"}, []string{"target", ".git"}, zerolog.Nop(), func(string, fsnotify.Op) {})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.AddDirectory(tmpDir))

	watched := map[string]bool{}
	for _, p := range fw.watcher.WatchList() {
		watched[p] = true
	}
	assert.True(t, watched[tmpDir])
	assert.True(t, watched[filepath.Join(tmpDir, "idl", "shared")])
	assert.False(t, watched[filepath.Join(tmpDir, "target")])
	assert.False(t, watched[filepath.Join(tmpDir, ".git")])
}

func TestFileWatcher_Close(t *testing.T) {
	fw, err := NewFileWatcher([]string{"*.ast.yaml"}, []string{}, zerolog.Nop(), func(string, fsnotify.Op) {})
	require.NoError(t, err)

	// Close should not error
	assert.NoError(t, fw.Close())

	// Double close should also be safe
	assert.NoError(t, fw.Close())
}

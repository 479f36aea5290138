// Package dev implements watch mode: regenerate the project whenever an input changes.
package dev

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/okra-platform/thriftrs/internal/build"
	"github.com/okra-platform/thriftrs/internal/config"
	"github.com/rs/zerolog"
)

// Watcher regenerates the project on input changes. Builds never overlap; changes
// arriving during a build schedule exactly one follow-up build.
type Watcher struct {
	config      *config.Config
	projectRoot string
	generator   Generator
	logger      zerolog.Logger

	buildMu  sync.Mutex
	building bool
	pending  bool

	// OnBuild, when set, observes every finished build
	OnBuild func(result *build.Result, err error)
}

// NewWatcher creates a watch session for the project
func NewWatcher(cfg *config.Config, projectRoot string, generator Generator, logger zerolog.Logger) *Watcher {
	return &Watcher{
		config:      cfg,
		projectRoot: projectRoot,
		generator:   generator,
		logger:      logger,
	}
}

// Start runs an initial build and then watches until ctx is cancelled.
// A failing build is logged and does not stop the session.
func (w *Watcher) Start(ctx context.Context) error {
	w.Rebuild(ctx)

	fw, err := NewFileWatcher(w.config.Dev.Watch, w.config.Dev.Exclude, w.logger, func(path string, op fsnotify.Op) {
		w.handleFileChange(ctx, path, op)
	})
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.AddDirectory(w.projectRoot); err != nil {
		return err
	}

	w.logger.Info().
		Str("root", w.projectRoot).
		Strs("patterns", w.config.Dev.Watch).
		Msg("watching for changes")

	err = fw.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handleFileChange is called when a watched file changes
func (w *Watcher) handleFileChange(ctx context.Context, path string, op fsnotify.Op) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".thriftrs-") || strings.HasSuffix(base, "~") {
		return
	}

	var action string
	switch {
	case op.Has(fsnotify.Create):
		action = "created"
	case op.Has(fsnotify.Write):
		action = "modified"
	case op.Has(fsnotify.Remove):
		action = "deleted"
	case op.Has(fsnotify.Rename):
		action = "renamed"
	default:
		return
	}

	relPath, err := filepath.Rel(w.projectRoot, path)
	if err != nil {
		relPath = path
	}
	w.logger.Info().Str("file", relPath).Str("action", action).Msg("input changed")

	w.Rebuild(ctx)
}

// Rebuild runs a generation pass unless one is already running, in which case
// the running pass is followed by one more.
func (w *Watcher) Rebuild(ctx context.Context) {
	w.buildMu.Lock()
	if w.building {
		w.pending = true
		w.buildMu.Unlock()
		w.logger.Debug().Msg("build already in progress, queued")
		return
	}
	w.building = true
	w.buildMu.Unlock()

	for {
		w.runBuild(ctx)

		w.buildMu.Lock()
		if !w.pending {
			w.building = false
			w.buildMu.Unlock()
			return
		}
		w.pending = false
		w.buildMu.Unlock()
	}
}

func (w *Watcher) runBuild(ctx context.Context) {
	result, err := w.generator.Generate(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("generation failed")
	} else {
		w.logger.Info().
			Int("units", len(result.Artifacts)).
			Dur("duration", result.Duration).
			Msg("generation succeeded")
	}

	if w.OnBuild != nil {
		w.OnBuild(result, err)
	}
}

// Package build runs the generation pipeline for a project: resolve inputs, load and
// link the AST, render every program and write the units.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okra-platform/thriftrs/internal/codegen"
	"github.com/okra-platform/thriftrs/internal/config"
	"github.com/okra-platform/thriftrs/internal/schema"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Artifact is one generated unit on disk
type Artifact struct {
	Program string
	Path    string
	Size    int
}

// Result describes a finished generation run
type Result struct {
	Language  string
	Inputs    []string
	Artifacts []Artifact
	Duration  time.Duration
}

// Option configures a Builder
type Option func(*Builder)

// WithRegistry selects the generator registry. The default is codegen.DefaultRegistry.
func WithRegistry(r *codegen.Registry) Option {
	return func(b *Builder) {
		b.registry = r
	}
}

// WithVersion sets the version stamped into generated headers
func WithVersion(v string) Option {
	return func(b *Builder) {
		b.version = v
	}
}

// Builder generates the code of a project
type Builder struct {
	config      *config.Config
	projectRoot string
	logger      zerolog.Logger
	registry    *codegen.Registry
	version     string
}

// NewBuilder creates a builder for the project rooted at projectRoot
func NewBuilder(cfg *config.Config, projectRoot string, logger zerolog.Logger, opts ...Option) *Builder {
	b := &Builder{
		config:      cfg,
		projectRoot: projectRoot,
		logger:      logger,
		registry:    codegen.DefaultRegistry,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OutputDir returns the absolute directory units are written to
func (b *Builder) OutputDir() string {
	if filepath.IsAbs(b.config.Build.Output) {
		return b.config.Build.Output
	}
	return filepath.Join(b.projectRoot, b.config.Build.Output)
}

// Load reads and links the given AST files, or the configured inputs when none are given
func (b *Builder) Load(inputs ...string) (*schema.Bundle, []string, error) {
	if len(inputs) == 0 {
		resolved, err := b.config.ResolveInputs(b.projectRoot)
		if err != nil {
			return nil, nil, err
		}
		if len(resolved) == 0 {
			return nil, nil, fmt.Errorf("no input files matching %v in %s", b.config.Inputs, b.projectRoot)
		}
		inputs = resolved
	}

	b.logger.Debug().
		Strs("inputs", inputs).
		Msg("loading AST")

	bundle, err := schema.LoadFiles(inputs...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load AST: %w", err)
	}
	return bundle, inputs, nil
}

// Generator returns the configured backend
func (b *Builder) Generator() (codegen.Generator, error) {
	return b.registry.Get(b.config.Language, codegen.Options{
		Namespace:     b.config.Build.Namespace,
		Version:       b.version,
		MaxChainDepth: b.config.Build.MaxChainDepth,
	})
}

// Generate renders every program concurrently. Units are staged next to their
// targets and moved into place only once every program rendered and every
// staged file was written; a render or write error leaves the output directory
// untouched. A failure while moving staged files can leave earlier units replaced.
func (b *Builder) Generate(ctx context.Context, inputs ...string) (*Result, error) {
	start := time.Now()

	gen, err := b.Generator()
	if err != nil {
		return nil, err
	}

	bundle, inputs, err := b.Load(inputs...)
	if err != nil {
		return nil, err
	}

	outputs := make([][]byte, len(bundle.Programs))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range bundle.Programs {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := gen.Generate(p)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	result := &Result{
		Language: gen.Language(),
		Inputs:   inputs,
	}
	outDir := b.OutputDir()
	paths := make([]string, len(bundle.Programs))
	owners := make(map[string]string, len(bundle.Programs))
	for i, p := range bundle.Programs {
		paths[i] = filepath.Join(outDir, filepath.FromSlash(gen.UnitPath(p)))
		if other, dup := owners[paths[i]]; dup {
			return nil, fmt.Errorf("programs %s and %s both generate %s", other, p.Name, paths[i])
		}
		owners[paths[i]] = p.Name
	}

	if err := writeUnits(paths, outputs); err != nil {
		return nil, err
	}
	for i, p := range bundle.Programs {
		result.Artifacts = append(result.Artifacts, Artifact{
			Program: p.Name,
			Path:    paths[i],
			Size:    len(outputs[i]),
		})

		b.logger.Debug().
			Str("program", p.Name).
			Str("path", paths[i]).
			Int("size", len(outputs[i])).
			Msg("wrote unit")
	}

	result.Duration = time.Since(start)
	b.logger.Info().
		Int("programs", len(bundle.Programs)).
		Str("output", outDir).
		Dur("duration", result.Duration).
		Msg("generation complete")

	return result, nil
}

// writeUnits stages data[i] for paths[i] and renames them all into place.
// Staged files and directories created here are removed when staging fails.
func writeUnits(paths []string, data [][]byte) (err error) {
	var staged, created []string
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
		if err == nil {
			return
		}
		for i := len(created) - 1; i >= 0; i-- {
			// only removes directories left empty
			os.Remove(created[i])
		}
	}()

	for i, path := range paths {
		dirs, err := mkdirs(filepath.Dir(path))
		created = append(created, dirs...)
		if err != nil {
			return err
		}
		tmp, err := stage(path, data[i])
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	for i, tmp := range staged {
		if err := os.Rename(tmp, paths[i]); err != nil {
			return fmt.Errorf("failed to move %s into place: %w", paths[i], err)
		}
	}
	return nil
}

// mkdirs creates dir and reports the missing ancestors it made, outermost first
func mkdirs(dir string) ([]string, error) {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil || !os.IsNotExist(err) {
			break
		}
		missing = append([]string{d}, missing...)
		if filepath.Dir(d) == d {
			break
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return missing, fmt.Errorf("failed to create output directory: %w", err)
	}
	return missing, nil
}

// stage writes data to a temporary file in the directory of path
func stage(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".thriftrs-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return tmp.Name(), nil
}

// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okra-platform/thriftrs/internal/build"
	"github.com/okra-platform/thriftrs/internal/codegen"
	"github.com/okra-platform/thriftrs/internal/config"
	"github.com/okra-platform/thriftrs/internal/dev"
	"github.com/rs/zerolog/log"
)

// Flags holds command line overrides of the project config
type Flags struct {
	LogLevel      string
	ConfigPath    string
	Language      string
	Output        string
	Namespace     string
	MaxChainDepth int
	Yes           bool
}

// Controller runs the CLI commands
type Controller struct {
	Flags   *Flags
	Version string

	// Out receives command output; nil means stdout
	Out io.Writer
}

func (c *Controller) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// loadConfig finds the project config and applies flag overrides.
// Without a config file the defaults are used, rooted at the working directory.
func (c *Controller) loadConfig() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		root string
		err  error
	)

	if c.Flags.ConfigPath != "" {
		cfg, err = config.LoadConfigFromPath(c.Flags.ConfigPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load configuration: %w", err)
		}
		root, err = filepath.Abs(filepath.Dir(c.Flags.ConfigPath))
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve project root: %w", err)
		}
	} else {
		cfg, root, err = config.LoadConfig()
		if errors.Is(err, config.ErrNotFound) {
			root, err = os.Getwd()
			if err != nil {
				return nil, "", fmt.Errorf("failed to get current directory: %w", err)
			}
			log.Debug().Str("root", root).Msg("no config file, using defaults")
			cfg = config.Default()
		} else if err != nil {
			return nil, "", fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	if c.Flags.Language != "" {
		cfg.Language = c.Flags.Language
	}
	if c.Flags.Output != "" {
		cfg.Build.Output = c.Flags.Output
	}
	if c.Flags.Namespace != "" {
		cfg.Build.Namespace = c.Flags.Namespace
	}
	if c.Flags.MaxChainDepth > 0 {
		cfg.Build.MaxChainDepth = c.Flags.MaxChainDepth
	}

	return cfg, root, nil
}

func (c *Controller) newBuilder() (*build.Builder, *config.Config, string, error) {
	cfg, root, err := c.loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	builder := build.NewBuilder(cfg, root, log.Logger, build.WithVersion(c.Version))
	return builder, cfg, root, nil
}

// Generate renders every input program and writes the units
func (c *Controller) Generate(ctx context.Context, inputs []string) error {
	builder, _, root, err := c.newBuilder()
	if err != nil {
		return err
	}

	result, err := builder.Generate(ctx, inputs...)
	if err != nil {
		return err
	}

	for _, a := range result.Artifacts {
		rel, err := filepath.Rel(root, a.Path)
		if err != nil {
			rel = a.Path
		}
		fmt.Fprintf(c.out(), "✅ %s -> %s\n", a.Program, rel)
	}
	fmt.Fprintf(c.out(), "Generated %d %s unit(s) in %v\n", len(result.Artifacts), result.Language, result.Duration)
	return nil
}

// Watch regenerates on every input change until ctx is cancelled
func (c *Controller) Watch(ctx context.Context) error {
	builder, cfg, root, err := c.newBuilder()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out(), "👀 Watching %s for %s\n", root, strings.Join(cfg.Dev.Watch, ", "))
	return dev.NewWatcher(cfg, root, builder, log.Logger).Start(ctx)
}

// Languages lists the registered backends
func (c *Controller) Languages(ctx context.Context) error {
	for _, lang := range codegen.DefaultRegistry.Languages() {
		fmt.Fprintln(c.out(), lang)
	}
	return nil
}

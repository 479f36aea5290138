package commands

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/okra-platform/thriftrs/internal/codegen"
	"github.com/okra-platform/thriftrs/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// ExampleFile is the name the example AST is written under
const ExampleFile = "tutorial.ast.yaml"

type InitOptions struct {
	ProjectName string
	Language    string
	Output      string
	Namespace   string
	Example     bool
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	filesystem  FileSystem
	templatesFS fs.FS
	dir         string
	out         io.Writer
	// If set, skip prompting
	presetOptions *InitOptions
}

func NewInitCommand(dir string, out io.Writer) *InitCommand {
	return &InitCommand{
		filesystem:  &osFileSystem{},
		templatesFS: templatesFS,
		dir:         dir,
		out:         out,
	}
}

// DefaultInitOptions are used when prompting is skipped
func DefaultInitOptions(dir string) *InitOptions {
	cfg := config.Default()
	return &InitOptions{
		ProjectName: filepath.Base(dir),
		Language:    cfg.Language,
		Output:      cfg.Build.Output,
		Example:     true,
	}
}

func (c *Controller) Init(ctx context.Context) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cmd := NewInitCommand(dir, c.out())
	if c.Flags.Yes {
		cmd.presetOptions = DefaultInitOptions(dir)
		if c.Flags.Language != "" {
			cmd.presetOptions.Language = c.Flags.Language
		}
		if c.Flags.Output != "" {
			cmd.presetOptions.Output = c.Flags.Output
		}
		cmd.presetOptions.Namespace = c.Flags.Namespace
	}
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	configPath := filepath.Join(ic.dir, config.FileName)
	if _, err := ic.filesystem.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, ic.dir)
	}

	var options *InitOptions
	var err error

	if ic.presetOptions != nil {
		options = ic.presetOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	if err := validateLanguage(options.Language); err != nil {
		return err
	}
	if err := validateNamespace(options.Namespace); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.Name = options.ProjectName
	cfg.Language = options.Language
	cfg.Build.Output = options.Output
	cfg.Build.Namespace = options.Namespace

	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	output := cfg.Build.Output
	if !filepath.IsAbs(output) {
		output = filepath.Join(ic.dir, output)
	}
	if err := ic.filesystem.MkdirAll(output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if options.Example {
		if err := ic.writeExample(); err != nil {
			return fmt.Errorf("failed to write example: %w", err)
		}
	}

	fmt.Fprintf(ic.out, "✅ Initialized %s in %s\n", options.ProjectName, ic.dir)
	return nil
}

func (ic *InitCommand) writeExample() error {
	dest := filepath.Join(ic.dir, ExampleFile)
	if _, err := ic.filesystem.Stat(dest); err == nil {
		// keep the user's file
		return nil
	}

	data, err := fs.ReadFile(ic.templatesFS, "templates/example.ast.yaml")
	if err != nil {
		return err
	}
	return ic.filesystem.WriteFile(dest, data, 0644)
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := DefaultInitOptions(ic.dir)

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	languages := make([]huh.Option[string], 0)
	for _, lang := range codegen.DefaultRegistry.Languages() {
		languages = append(languages, huh.NewOption(lang, lang))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Name recorded in thriftrs.yaml").
				Value(&options.ProjectName).
				Validate(validateProjectName),

			huh.NewSelect[string]().
				Title("Language").
				Description("Target language of the generated code").
				Options(languages...).
				Value(&options.Language),

			huh.NewInput().
				Title("Output directory").
				Description("Where generated modules are written").
				Value(&options.Output).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("output directory cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Title("Namespace").
				Description("Path prefix for cross-module uses, e.g. my_crate.gen (optional)").
				Value(&options.Namespace).
				Validate(validateNamespace),

			huh.NewConfirm().
				Title("Write an example AST?").
				Value(&options.Example),
		),
	)
}

func validateProjectName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("project name cannot be empty")
	}
	return nil
}

func validateLanguage(lang string) error {
	for _, l := range codegen.DefaultRegistry.Languages() {
		if l == lang {
			return nil
		}
	}
	return fmt.Errorf("unsupported language %q", lang)
}

// validateNamespace accepts an empty namespace or segments separated by "." or "::"
func validateNamespace(ns string) error {
	if ns == "" {
		return nil
	}
	for _, seg := range strings.Split(strings.ReplaceAll(ns, "::", "."), ".") {
		if seg == "" {
			return fmt.Errorf("namespace %q has an empty segment", ns)
		}
		for i, r := range seg {
			if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
				continue
			}
			return fmt.Errorf("namespace %q: invalid character %q", ns, r)
		}
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file searched for by LoadConfig
const FileName = "thriftrs.yaml"

// DefaultMaxChainDepth is the service chain limit used when the config sets none
const DefaultMaxChainDepth = 26

// ErrNotFound is returned by LoadConfig when no config file exists up to the filesystem root
var ErrNotFound = errors.New("config file not found")

// Config represents the thriftrs.yaml configuration file
type Config struct {
	Name     string      `yaml:"name"`
	Language string      `yaml:"language"`
	Inputs   []string    `yaml:"inputs"`
	Build    BuildConfig `yaml:"build"`
	Dev      DevConfig   `yaml:"dev"`
}

// BuildConfig contains generation settings
type BuildConfig struct {
	Output        string `yaml:"output"`
	Namespace     string `yaml:"namespace"`
	MaxChainDepth int    `yaml:"max_chain_depth"`
}

// DevConfig contains watch mode configuration
type DevConfig struct {
	Watch   []string `yaml:"watch"`
	Exclude []string `yaml:"exclude"`
}

// Default returns a config with every default applied
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadConfig loads thriftrs.yaml from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Build.MaxChainDepth < 0 {
		return nil, fmt.Errorf("invalid max_chain_depth %d", config.Build.MaxChainDepth)
	}

	config.applyDefaults()
	return &config, nil
}

// Encode renders the configuration as YAML
func (c *Config) Encode() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = "rs"
	}
	if len(c.Inputs) == 0 {
		c.Inputs = []string{"*.ast.yaml", "**/*.ast.yaml"}
	}
	if c.Build.Output == "" {
		c.Build.Output = "./src"
	}
	if c.Build.MaxChainDepth == 0 {
		c.Build.MaxChainDepth = DefaultMaxChainDepth
	}
	if len(c.Dev.Watch) == 0 {
		c.Dev.Watch = append([]string(nil), c.Inputs...)
	}
	if len(c.Dev.Exclude) == 0 {
		c.Dev.Exclude = []string{".git", "target", "node_modules", "*.rs"}
	}
}

// ResolveInputs walks root and returns the files matching the input patterns, sorted.
// Excluded directories are skipped entirely.
func (c *Config) ResolveInputs(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && matchesAny(c.Dev.Exclude, filepath.Base(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if Matches(c.Inputs, c.Dev.Exclude, rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve inputs in %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// Matches reports whether path (relative or absolute) matches a pattern and no exclude.
// Excludes and plain patterns match the base name; "**/" patterns match at any depth.
func Matches(patterns, exclude []string, path string) bool {
	base := filepath.Base(path)
	if matchesAny(exclude, base) {
		return false
	}

	for _, pattern := range patterns {
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matched, _ := filepath.Match(rest, base); matched {
				return true
			}
			continue
		}
		if strings.ContainsRune(pattern, '/') {
			if matched, _ := filepath.Match(pattern, filepath.ToSlash(path)); matched {
				return true
			}
			continue
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			if !strings.ContainsRune(filepath.ToSlash(path), '/') || filepath.IsAbs(path) {
				return true
			}
		}
	}

	return false
}

func matchesAny(patterns []string, base string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// loadConfigFromDir searches for thriftrs.yaml in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w: no %s found in %s or any parent directory", ErrNotFound, FileName, startDir)
}

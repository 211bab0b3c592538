// Package config loads the dogpic configuration file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-dogpic/internal/logging"
	"github.com/askiada/go-dogpic/pkg/dogpic"
)

// Config is the top-level configuration structure.
type Config struct {
	// Workdir roots the source and destination paths. Empty means the directory of the executable.
	Workdir     string         `yaml:"workdir"`
	Source      string         `yaml:"source"`
	Destination string         `yaml:"destination"`
	Style       string         `yaml:"style"`
	TrimBreed   bool           `yaml:"trim_breed"`
	Fetch       FetchConfig    `yaml:"fetch"`
	Log         logging.Config `yaml:"log"`
	Report      ReportConfig   `yaml:"report"`
}

type FetchConfig struct {
	Variant      string        `yaml:"variant"`
	BaseURL      string        `yaml:"base_url"`
	PathTemplate string        `yaml:"path_template"`
	Key          string        `yaml:"key"`
	Timeout      time.Duration `yaml:"timeout"`
}

type ReportConfig struct {
	Measure bool `yaml:"measure"`
	// Graph is the DOT file written after a successful run, relative to Workdir.
	Graph string `yaml:"graph"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Source:      dogpic.DefaultSource,
		Destination: dogpic.DefaultDestination,
		Style:       string(dogpic.StyleAwait),
		TrimBreed:   true,
		Fetch: FetchConfig{
			Variant: dogpic.VariantAPI.Name,
		},
		Log: logging.Config{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Load reads path from fs on top of the defaults. An empty path returns the defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse config %s", path)
	}

	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.Destination == "" {
		return errors.New("destination is required")
	}

	style, err := dogpic.ParseStyle(c.Style)
	if err != nil {
		return err
	}
	if style != dogpic.StyleChain && (c.Report.Measure || c.Report.Graph != "") {
		return errors.Errorf("report is only available with the %s style", dogpic.StyleChain)
	}

	variant, err := c.Variant()
	if err != nil {
		return err
	}
	if !strings.Contains(variant.PathTemplate, "{breed}") {
		return errors.Errorf("fetch.path_template %q must contain {breed}", variant.PathTemplate)
	}
	if variant.Key == "" {
		return errors.New("fetch.key is required")
	}
	if c.Fetch.Timeout < 0 {
		return errors.New("fetch.timeout must not be negative")
	}

	return nil
}

// Variant resolves the fetch preset and applies the overrides.
func (c *Config) Variant() (dogpic.Variant, error) {
	variant, err := dogpic.VariantByName(c.Fetch.Variant)
	if err != nil {
		return dogpic.Variant{}, err
	}
	if c.Fetch.BaseURL != "" {
		variant.BaseURL = c.Fetch.BaseURL
	}
	if c.Fetch.PathTemplate != "" {
		variant.PathTemplate = c.Fetch.PathTemplate
	}
	if c.Fetch.Key != "" {
		variant.Key = c.Fetch.Key
	}

	return variant, nil
}

// ResolveWorkdir returns Workdir as an absolute path, or the directory of the running executable when it is empty.
func (c *Config) ResolveWorkdir() (string, error) {
	if c.Workdir != "" {
		dir, err := filepath.Abs(c.Workdir)
		if err != nil {
			return "", errors.Wrapf(err, "unable to resolve workdir %s", c.Workdir)
		}

		return dir, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "unable to locate executable")
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", errors.Wrap(err, "unable to resolve executable path")
	}

	return filepath.Dir(exe), nil
}

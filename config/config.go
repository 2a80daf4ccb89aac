// Package config loads the jjpages configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// EnvJJ overrides the jj binary.
const EnvJJ = "JJPAGES_JJ"

// Base is the name of the configuration file without extension.
const Base = "jjpages"

// extensions are tried in order when looking for the configuration in a
// directory.
var extensions = []string{".toml", ".yaml", ".yml"}

// Config is the configuration of the language server and of the page
// renderers.
type Config struct {
	// JJ is the jj binary.
	JJ string `toml:"jj" yaml:"jj"`
	// LogRevset selects the recent commits listed under a status page.
	LogRevset string `toml:"logRevset" yaml:"logRevset"`
	// CommitTemplate is the jj template commits are rendered with.
	CommitTemplate string `toml:"commitTemplate" yaml:"commitTemplate"`
	// AnnotateRevision is the revision annotate pages show by default.
	AnnotateRevision string `toml:"annotateRevision" yaml:"annotateRevision"`
	// Concurrency bounds the jj processes one render runs at once.
	Concurrency int `toml:"concurrency" yaml:"concurrency"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		JJ:               "jj",
		LogRevset:        "ancestors(@, 10)",
		CommitTemplate:   "builtin_log_oneline",
		AnnotateRevision: "@",
		Concurrency:      4,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	for _, f := range []struct{ name, v string }{
		{"jj", c.JJ},
		{"logRevset", c.LogRevset},
		{"commitTemplate", c.CommitTemplate},
		{"annotateRevision", c.AnnotateRevision},
	} {
		if strings.TrimSpace(f.v) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", f.name))
		}
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	return errors.Join(errs...)
}

// Dir is the directory searched for the configuration file:
// $XDG_CONFIG_HOME/jjpages, or the platform's user configuration
// directory.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		var err error
		base, err = os.UserConfigDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(base, Base), nil
}

// Load reads the configuration at path, or when path is empty the first
// of jjpages.{toml,yaml,yml} found in Dir. No file found yields the
// defaults. Settings absent from the file keep their defaults, and the
// environment overrides the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path, err = find(dir)
		if err != nil {
			return nil, err
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// find returns the first configuration file present in dir, or "".
func find(dir string) (string, error) {
	for _, ext := range extensions {
		candidate := filepath.Join(dir, Base+ext)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("could not stat %q: %w", candidate, err)
		}
	}
	return "", nil
}

func (c *Config) decodeFile(path string) error {
	d, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	switch filepath.Ext(path) {
	case ".toml":
		meta, err := toml.Decode(string(d), c)
		if err != nil {
			return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) != 0 {
			return fmt.Errorf("%s: unknown setting %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(d, c, yaml.Strict()); err != nil {
			return fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return fmt.Errorf("%s: unsupported config format, want one of %s", path, strings.Join(extensions, ", "))
	}
	return nil
}

// ApplyEnv applies the overrides found through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvJJ); v != "" {
		c.JJ = v
	}
}

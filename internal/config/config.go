// Package config loads the vimbridge configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/slzatz/vimbridge/vim"
)

// Engine names accepted in the configuration.
const (
	EngineAuto   = "auto"
	EngineGo     = "go"
	EngineLibvim = "libvim"
)

const configFilePermissions = 0o644

// Config is the top-level configuration.
type Config struct {
	// Engine selects the engine implementation: auto, go or libvim.
	Engine string `yaml:"engine"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFile receives the engine log. Empty means stderr.
	LogFile string `yaml:"log_file,omitempty"`

	// Journal is the path of the SQLite event journal. Empty disables it.
	Journal string `yaml:"journal,omitempty"`

	Options Options `yaml:"options"`
}

// Options are editor options applied to the engine after Init.
type Options struct {
	TabSize          int              `yaml:"tab_size"`
	InsertSpaces     bool             `yaml:"insert_spaces"`
	AutoClosingPairs AutoClosingPairs `yaml:"auto_closing_pairs"`
}

// AutoClosingPairs configures bracket auto-closing. Each pair is a
// two-character string such as "()".
type AutoClosingPairs struct {
	Enabled bool     `yaml:"enabled"`
	Pairs   []string `yaml:"pairs,omitempty"`
}

// ValidationError reports one invalid field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s (got %v)", e.Field, e.Message, e.Value)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine:   EngineAuto,
		LogLevel: "info",
		Options: Options{
			TabSize: 8,
			AutoClosingPairs: AutoClosingPairs{
				Pairs: []string{"()", "[]", "{}", `""`, "''"},
			},
		},
	}
}

// Load reads path over the defaults. A missing file yields the
// defaults unchanged.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// FromYAML parses data over the defaults and validates the result.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToYAML renders the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := c.ToYAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, configFilePermissions)
}

// Validate checks every field and joins the failures.
func (c *Config) Validate() error {
	var errs []error
	switch c.Engine {
	case EngineAuto, EngineGo, EngineLibvim:
	default:
		errs = append(errs, &ValidationError{Field: "engine", Value: c.Engine, Message: "must be auto, go or libvim"})
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Field: "log_level", Value: c.LogLevel, Message: "unknown level"})
	}
	if c.Options.TabSize < 1 {
		errs = append(errs, &ValidationError{Field: "options.tab_size", Value: c.Options.TabSize, Message: "must be positive"})
	}
	for i, p := range c.Options.AutoClosingPairs.Pairs {
		if utf8.RuneCountInString(p) != 2 {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("options.auto_closing_pairs.pairs[%d]", i),
				Value:   p,
				Message: "must be exactly two characters",
			})
		}
	}
	return errors.Join(errs...)
}

// UseGoEngine reports whether the configuration selects the Go engine.
// auto picks libvim when the binary was built with it.
func (c *Config) UseGoEngine() bool {
	switch c.Engine {
	case EngineGo:
		return true
	case EngineLibvim:
		return false
	}
	return !vim.IsCGOAvailable()
}

// ClosingPairs converts the configured pair strings.
func (c *Config) ClosingPairs() []vim.AutoClosingPair {
	pairs := make([]vim.AutoClosingPair, 0, len(c.Options.AutoClosingPairs.Pairs))
	for _, p := range c.Options.AutoClosingPairs.Pairs {
		r := []rune(p)
		if len(r) != 2 {
			continue
		}
		pairs = append(pairs, vim.AutoClosingPair{Open: r[0], Close: r[1]})
	}
	return pairs
}

// Apply sets the editor options on an initialized bridge.
func (c *Config) Apply(b *vim.Bridge) error {
	b.SetTabSize(c.Options.TabSize)
	b.SetInsertSpaces(c.Options.InsertSpaces)
	if len(c.Options.AutoClosingPairs.Pairs) > 0 {
		if err := b.SetAutoClosingPairs(c.ClosingPairs()); err != nil {
			return fmt.Errorf("config: auto-closing pairs: %w", err)
		}
	}
	b.SetAutoClosingPairsEnabled(c.Options.AutoClosingPairs.Enabled)
	return nil
}

// Package config provides configuration management for the phpns CLI.
//
// It layers the shared generator settings from pkg/core with CLI-specific
// fields (project roots, verbosity, output format).
package config

import (
	sharedcfg "github.com/leapstack-labs/phpns/internal/config"
	"github.com/leapstack-labs/phpns/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is the inferred project directory. It is the default root
	// and the base for relative roots.
	ProjectRoot string `koanf:"-"`

	Roots        []string `koanf:"roots"`
	Verbose      bool     `koanf:"verbose"`
	OutputFormat string   `koanf:"output"`

	core.Settings `koanf:",squash"`
}

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix     = "PHPNS_"
)

// Default config file names, shared with the LSP loader.
const (
	ConfigFileName    = sharedcfg.ConfigFileName
	ConfigFileNameAlt = sharedcfg.ConfigFileNameAlt
)

// DefaultConfig returns the configuration used before anything is loaded.
func DefaultConfig() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		Settings:     core.DefaultSettings(),
	}
}

// EffectiveRoots returns the configured roots, or the project root when
// none are configured.
func (c *Config) EffectiveRoots() []string {
	if len(c.Roots) > 0 {
		return c.Roots
	}
	if c.ProjectRoot != "" {
		return []string{c.ProjectRoot}
	}
	return nil
}

// Package config provides shared configuration types for phpns.
// This package is decoupled from CLI concerns and is used by the LSP to
// read project defaults from phpns.yaml.
package config

import "github.com/leapstack-labs/phpns/pkg/core"

// ProjectConfig is the content of a phpns.yaml file.
type ProjectConfig struct {
	// Roots lists additional project roots, relative to the config file.
	Roots []string `koanf:"roots" yaml:"roots,omitempty"`

	core.Settings `koanf:",squash" yaml:",inline"`
}

// ApplyDefaults fills unset settings.
func (c *ProjectConfig) ApplyDefaults() {
	if c == nil {
		return
	}
	c.Settings.ApplyDefaults()
}

package config

import (
	"fmt"
	"slices"
)

// OutputFormats lists the accepted --output values.
var OutputFormats = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !c.NamespaceStyle.Valid() {
		return fmt.Errorf("namespace_style %q is not supported (want same-line, next-line or psr-2)", c.NamespaceStyle)
	}
	if c.StaleAfter <= 0 {
		return fmt.Errorf("stale_after must be positive, got %s", c.StaleAfter)
	}
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	return nil
}

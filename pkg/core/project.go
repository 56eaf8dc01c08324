package core

import "time"

// DefaultStaleAfter is how old a file may be and still get boilerplate.
// Older files were reopened, not created.
const DefaultStaleAfter = time.Second

// Settings holds the user-facing options of the boilerplate generator.
type Settings struct {
	// NamespaceStyle places the namespace declaration (same-line, next-line, psr-2).
	NamespaceStyle NamespaceStyle `koanf:"namespace_style" yaml:"namespace_style" json:"namespace_style"`

	// IncludeClassDefinition appends an empty class named after the file.
	IncludeClassDefinition bool `koanf:"include_class_definition" yaml:"include_class_definition" json:"include_class_definition"`

	// IncludeAutoloadDev also reads the autoload-dev section of composer.json.
	IncludeAutoloadDev bool `koanf:"include_autoload_dev" yaml:"include_autoload_dev" json:"include_autoload_dev"`

	// StaleAfter is the creation-age limit for automatic boilerplate.
	StaleAfter time.Duration `koanf:"stale_after" yaml:"stale_after" json:"stale_after"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		NamespaceStyle:         DefaultNamespaceStyle,
		IncludeClassDefinition: true,
		StaleAfter:             DefaultStaleAfter,
	}
}

// ApplyDefaults fills zero-valued fields that have no meaningful zero.
// IncludeClassDefinition is a plain bool and is left alone.
func (s *Settings) ApplyDefaults() {
	if s.NamespaceStyle == "" {
		s.NamespaceStyle = DefaultNamespaceStyle
	}
	if s.StaleAfter <= 0 {
		s.StaleAfter = DefaultStaleAfter
	}
}

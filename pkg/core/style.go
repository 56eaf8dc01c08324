package core

import (
	"fmt"
	"strings"
)

// NamespaceStyle controls where the namespace declaration goes relative to
// the opening <?php tag.
type NamespaceStyle string

// Supported namespace styles.
const (
	// StyleSameLine puts the declaration on the tag line.
	StyleSameLine NamespaceStyle = "same-line"
	// StyleNextLine puts the declaration on the line after the tag.
	StyleNextLine NamespaceStyle = "next-line"
	// StylePSR2 separates tag and declaration with one blank line.
	StylePSR2 NamespaceStyle = "psr-2"
)

// DefaultNamespaceStyle is used when nothing is configured.
const DefaultNamespaceStyle = StylePSR2

// NamespaceStyles lists every supported style.
func NamespaceStyles() []NamespaceStyle {
	return []NamespaceStyle{StyleSameLine, StyleNextLine, StylePSR2}
}

// ParseNamespaceStyle converts a string to a NamespaceStyle.
// Matching is case-insensitive; "psr2" is accepted for "psr-2".
func ParseNamespaceStyle(s string) (NamespaceStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "same-line":
		return StyleSameLine, nil
	case "next-line":
		return StyleNextLine, nil
	case "psr-2", "psr2":
		return StylePSR2, nil
	default:
		return "", fmt.Errorf("unknown namespace style %q (want same-line, next-line or psr-2)", s)
	}
}

// Valid reports whether s is a supported style.
func (s NamespaceStyle) Valid() bool {
	_, err := ParseNamespaceStyle(string(s))
	return err == nil
}

// String returns the configuration spelling of the style.
func (s NamespaceStyle) String() string {
	return string(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s NamespaceStyle) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so config decoders
// reject unknown styles.
func (s *NamespaceStyle) UnmarshalText(text []byte) error {
	parsed, err := ParseNamespaceStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Package format renders the boilerplate written into new PHP class files.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/phpns/pkg/core"
)

// OpenTag is the PHP opening tag.
const OpenTag = "<?php"

// ErrUnknownStyle is returned for a namespace style outside core.NamespaceStyles.
var ErrUnknownStyle = errors.New("unknown namespace style")

// Boilerplate renders the text appended to an empty class file: the open
// tag placed according to style, the namespace declaration and, when
// includeClass is set, a blank line and an empty class named className.
func Boilerplate(namespace, className string, style core.NamespaceStyle, includeClass bool) (string, error) {
	var b strings.Builder

	switch style {
	case core.StyleSameLine:
		b.WriteString(OpenTag + " ")
	case core.StyleNextLine:
		b.WriteString(OpenTag + "\n")
	case core.StylePSR2:
		b.WriteString(OpenTag + "\n\n")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	b.WriteString(NamespaceLine(namespace))

	if includeClass {
		b.WriteString("\n")
		b.WriteString(ClassBlock(className))
	}
	return b.String(), nil
}

// ForIdentity renders boilerplate for a resolved file with settings s.
func ForIdentity(id core.Identity, s core.Settings) (string, error) {
	return Boilerplate(id.Namespace, id.ClassName, s.NamespaceStyle, s.IncludeClassDefinition)
}

// NamespaceLine is a namespace declaration terminated by a newline.
func NamespaceLine(namespace string) string {
	return "namespace " + namespace + ";\n"
}

// ClassBlock is an empty class declaration with the brace on its own line.
func ClassBlock(className string) string {
	return "class " + className + "\n{\n}\n"
}

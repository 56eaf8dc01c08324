// Package resolver derives the namespace and class name of a PHP file from
// a rule table.
package resolver

import (
	"path"
	"strings"

	"github.com/leapstack-labs/phpns/internal/workspace"
	"github.com/leapstack-labs/phpns/pkg/core"
)

// ClassFileExt is the extension of files that get boilerplate.
const ClassFileExt = ".php"

// Resolve returns the namespace filePath should declare. projectRoot is
// the root filePath lies under; only rules declared by that root are
// considered. The boolean is false when no rule matches.
func Resolve(filePath, projectRoot string, table *core.RuleTable) (string, bool) {
	id, ok := Identify(filePath, projectRoot, table)
	return id.Namespace, ok
}

// Identify resolves namespace and class name together.
func Identify(filePath, projectRoot string, table *core.RuleTable) (core.Identity, bool) {
	root := workspace.Normalize(projectRoot)
	rel, ok := workspace.Rel(root, workspace.Normalize(filePath))
	if !ok {
		return core.Identity{}, false
	}

	rule, ok := table.Match(root, rel)
	if !ok {
		return core.Identity{}, false
	}

	return core.Identity{
		Namespace: join(rule.Namespace, subNamespace(rel[len(rule.Prefix):])),
		ClassName: ClassName(rel),
		Rule:      rule,
	}, true
}

// ClassName is the file name without its extension.
func ClassName(filePath string) string {
	base := path.Base(workspace.Normalize(filePath))
	return strings.TrimSuffix(base, path.Ext(base))
}

// IsClassFile reports whether filePath names a .php file with a non-empty
// base name.
func IsClassFile(filePath string) bool {
	p := workspace.Normalize(filePath)
	if !strings.HasSuffix(p, ClassFileExt) {
		return false
	}
	return ClassName(p) != ""
}

// subNamespace turns the directories between the rule prefix and the file
// name into namespace segments.
func subNamespace(subPath string) string {
	dir := path.Dir(subPath)
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.ReplaceAll(strings.Trim(dir, "/"), "/", core.NamespaceSeparator)
}

// join appends sub to the rule namespace and trims the trailing separator.
func join(base, sub string) string {
	base = strings.TrimSuffix(base, core.NamespaceSeparator)
	switch {
	case sub == "":
		return base
	case base == "":
		return sub
	default:
		return base + core.NamespaceSeparator + sub
	}
}

package core

import (
	"sort"
	"strings"
)

// NamespaceSeparator separates the segments of a PHP namespace.
const NamespaceSeparator = `\`

// ManifestFileName is the Composer manifest read from every project root.
const ManifestFileName = "composer.json"

// Autoload dialects understood by the loader. Both map identically.
const (
	DialectPSR0 = "psr-0"
	DialectPSR4 = "psr-4"
)

// Dialects lists the autoload sections read from a manifest, in load order.
var Dialects = []string{DialectPSR0, DialectPSR4}

// MappingRule maps a directory prefix inside a project root to a namespace.
type MappingRule struct {
	// Prefix is relative to Root, uses "/" and ends with "/". The one exception
	// is the empty prefix, which maps Root itself.
	Prefix string `json:"prefix"`

	// Namespace is the namespace declared for files under Prefix.
	Namespace string `json:"namespace"`

	// Root is the absolute, normalized project root that declared the rule.
	Root string `json:"root"`

	// Dialect is the autoload section the rule came from (psr-0, psr-4).
	Dialect string `json:"dialect"`

	// Dev is true when the rule came from autoload-dev.
	Dev bool `json:"dev,omitempty"`
}

// Matches reports whether the rule applies to relPath inside root.
func (r MappingRule) Matches(root, relPath string) bool {
	return r.Root == root && strings.HasPrefix(relPath, r.Prefix)
}

// RuleTable is an immutable list of rules ordered longest prefix first.
// A linear scan therefore hits the most specific rule first.
type RuleTable struct {
	rules []MappingRule
}

// NewRuleTable copies rules and orders them by descending prefix length.
// Rules with equal prefix length keep their relative order.
func NewRuleTable(rules []MappingRule) *RuleTable {
	sorted := make([]MappingRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &RuleTable{rules: sorted}
}

// Len returns the number of rules. A nil table is empty.
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rules returns a copy of the ordered rules.
func (t *RuleTable) Rules() []MappingRule {
	if t == nil {
		return nil
	}
	out := make([]MappingRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Match returns the first rule that applies to relPath inside root.
func (t *RuleTable) Match(root, relPath string) (MappingRule, bool) {
	if t == nil {
		return MappingRule{}, false
	}
	for _, r := range t.rules {
		if r.Matches(root, relPath) {
			return r, true
		}
	}
	return MappingRule{}, false
}

// ForRoot returns the rules declared by root, in table order.
func (t *RuleTable) ForRoot(root string) []MappingRule {
	if t == nil {
		return nil
	}
	var out []MappingRule
	for _, r := range t.rules {
		if r.Root == root {
			out = append(out, r)
		}
	}
	return out
}

// Identity is the namespace and class name resolved for one file.
type Identity struct {
	Namespace string      `json:"namespace"`
	ClassName string      `json:"class"`
	Rule      MappingRule `json:"rule"`
}

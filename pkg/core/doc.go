// Package core defines the shared language of the phpns system.
//
// This package contains:
//   - Domain entities (MappingRule, RuleTable, Identity)
//   - Configuration types (Settings, NamespaceStyle)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core

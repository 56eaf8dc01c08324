// Package loader builds namespace rule tables from Composer manifests.
//
// Each project root may carry a composer.json whose autoload section maps
// namespaces to directories. The loader turns every (namespace, directory)
// pair into a core.MappingRule scoped to its root and returns the rules as
// a single table ordered longest prefix first.
//
// Manifest problems never fail a load. A root whose manifest is missing,
// unreadable or malformed contributes no rules; the reason is recorded in
// the Report and logged at debug level.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/leapstack-labs/phpns/internal/workspace"
	"github.com/leapstack-labs/phpns/pkg/core"
)

// Sentinel errors recorded in a RootReport.
var (
	ErrNoManifest      = errors.New("no composer.json")
	ErrInvalidManifest = errors.New("invalid composer.json")
	ErrNoAutoload      = errors.New("no autoload section")
)

// Options configures a Loader.
type Options struct {
	// IncludeDev also reads the autoload-dev section.
	IncludeDev bool

	// Logger receives skipped roots and entries at debug level.
	Logger *slog.Logger
}

// Loader reads manifests from project roots.
type Loader struct {
	includeDev bool
	logger     *slog.Logger
	readFile   func(string) ([]byte, error)
}

// New creates a Loader.
func New(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		includeDev: opts.IncludeDev,
		logger:     logger,
		readFile:   os.ReadFile,
	}
}

// Load builds a rule table with default options.
func Load(roots []string) *core.RuleTable {
	return New(Options{}).Load(roots)
}

// Load builds a fresh rule table from the manifests under roots.
func (l *Loader) Load(roots []string) *core.RuleTable {
	table, _ := l.LoadWithReport(roots)
	return table
}

// LoadWithReport builds a fresh rule table and reports what every root
// contributed.
func (l *Loader) LoadWithReport(roots []string) (*core.RuleTable, *Report) {
	report := &Report{}
	var rules []core.MappingRule

	for _, root := range dedupeRoots(roots) {
		rootRules, rr := l.loadRoot(root)
		rules = append(rules, rootRules...)
		report.Roots = append(report.Roots, rr)
	}

	table := core.NewRuleTable(rules)
	l.logger.Debug("loaded namespace rules", "roots", len(report.Roots), "rules", table.Len())
	return table, report
}

// loadRoot reads one root's manifest. Errors end up in the report only.
func (l *Loader) loadRoot(root string) ([]core.MappingRule, RootReport) {
	manifestPath := filepath.Join(filepath.FromSlash(root), core.ManifestFileName)
	rr := RootReport{Root: root, Manifest: manifestPath}

	data, err := l.readFile(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			rr.fail(StatusMissing, ErrNoManifest)
		} else {
			rr.fail(StatusUnreadable, fmt.Errorf("read %s: %w", manifestPath, err))
		}
		l.logger.Debug("skipping project root", "root", root, "reason", rr.Error)
		return nil, rr
	}

	m, err := parseManifest(data)
	if err != nil {
		rr.fail(StatusInvalid, err)
		l.logger.Debug("skipping project root", "root", root, "reason", rr.Error)
		return nil, rr
	}

	sections := []section{{autoload: m.Autoload}}
	if l.includeDev {
		sections = append(sections, section{autoload: m.AutoloadDev, dev: true})
	}

	var rules []core.MappingRule
	anySection := false
	for _, sec := range sections {
		if !sec.autoload.present() {
			continue
		}
		anySection = true
		for _, e := range sec.autoload.entries() {
			if e.skipped != "" {
				rr.Skipped = append(rr.Skipped, e.skipped)
				l.logger.Debug("skipping autoload entry", "root", root, "entry", e.skipped)
				continue
			}
			rules = append(rules, core.MappingRule{
				Prefix:    workspace.NormalizePrefix(e.dir),
				Namespace: e.namespace,
				Root:      root,
				Dialect:   e.dialect,
				Dev:       sec.dev,
			})
		}
	}

	if !anySection {
		rr.fail(StatusNoAutoload, ErrNoAutoload)
		l.logger.Debug("skipping project root", "root", root, "reason", rr.Error)
		return nil, rr
	}

	rr.Status = StatusOK
	rr.Rules = len(rules)
	return rules, rr
}

type section struct {
	autoload autoloadSection
	dev      bool
}

// dedupeRoots normalizes roots and drops repeats, keeping first-seen order.
func dedupeRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		n := workspace.NormalizeRoot(r)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Package engine connects the rule loader, resolver and formatter to host
// events.
//
// The engine owns the current rule table. Reload builds a new table and
// swaps the pointer, so a resolution running during a reload sees either
// the old table or the new one in full.
//
// Hosts feed events through Dispatch (or Run) from a single goroutine;
// each event is handled to completion before the next.
package engine

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/leapstack-labs/phpns/internal/loader"
	"github.com/leapstack-labs/phpns/internal/resolver"
	"github.com/leapstack-labs/phpns/pkg/core"
	"github.com/leapstack-labs/phpns/pkg/format"
)

// Engine turns buffer events into namespace boilerplate.
type Engine struct {
	roots    ProjectRootProvider
	settings ConfigProvider
	logger   *slog.Logger

	table atomic.Pointer[core.RuleTable]

	// pending holds unbacked buffers waiting for their first save.
	// Only the dispatching goroutine touches it.
	pending map[string]struct{}

	stat func(string) (fs.FileInfo, error)
	now  func() time.Time
}

// Config holds engine dependencies.
type Config struct {
	// Roots provides the project roots (required).
	Roots ProjectRootProvider
	// Settings provides generator settings; defaults when nil.
	Settings ConfigProvider
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
	// Stat overrides os.Stat, for tests.
	Stat func(string) (fs.FileInfo, error)
	// Now overrides time.Now, for tests.
	Now func() time.Time
}

// New creates an engine with an empty rule table. Call Reload to load
// the manifests.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	settings := cfg.Settings
	if settings == nil {
		settings = StaticSettings(core.DefaultSettings())
	}
	stat := cfg.Stat
	if stat == nil {
		stat = os.Stat
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	e := &Engine{
		roots:    cfg.Roots,
		settings: settings,
		logger:   logger,
		pending:  make(map[string]struct{}),
		stat:     stat,
		now:      now,
	}
	e.table.Store(core.NewRuleTable(nil))
	return e
}

// Table returns the current rule table.
func (e *Engine) Table() *core.RuleTable {
	return e.table.Load()
}

// Settings returns the current settings with defaults applied.
func (e *Engine) Settings() core.Settings {
	s := e.settings.Settings()
	s.ApplyDefaults()
	return s
}

// Roots returns the current project roots.
func (e *Engine) Roots() []string {
	return e.roots.Roots()
}

// Reload rebuilds the rule table from the current roots and replaces the
// previous one.
func (e *Engine) Reload() (*core.RuleTable, *loader.Report) {
	l := loader.New(loader.Options{
		IncludeDev: e.Settings().IncludeAutoloadDev,
		Logger:     e.logger,
	})
	table, report := l.LoadWithReport(e.roots.Roots())
	e.table.Store(table)

	e.logger.Info("namespace rules loaded", "roots", len(report.Roots), "rules", table.Len())
	return table, report
}

// Resolve finds the namespace and class name for path using the project
// root that contains it.
func (e *Engine) Resolve(path string) (core.Identity, bool) {
	root, _, ok := e.roots.Relativize(path)
	if !ok {
		return core.Identity{}, false
	}
	return resolver.Identify(path, root, e.Table())
}

// Boilerplate renders the text for path with the current settings,
// regardless of buffer state.
func (e *Engine) Boilerplate(path string) (string, core.Identity, bool) {
	id, ok := e.Resolve(path)
	if !ok {
		return "", core.Identity{}, false
	}
	text, err := format.ForIdentity(id, e.Settings())
	if err != nil {
		e.logger.Warn("cannot render boilerplate", "path", path, "error", err)
		return "", core.Identity{}, false
	}
	return text, id, true
}

// Dispatch handles one event and reports what happened.
func (e *Engine) Dispatch(ev Event) Result {
	if ev.Kind == ReloadRequested {
		e.Reload()
		return ResultReloaded
	}
	if ev.Buffer == nil {
		return ResultIgnored
	}

	id := ev.Buffer.ID()
	switch ev.Kind {
	case BufferAdded:
		if ev.Buffer.Path() == "" {
			// Unbacked buffer: try again once it is saved.
			e.pending[id] = struct{}{}
			return ResultPending
		}
		return e.addBoilerplate(ev.Buffer)

	case BufferSaved:
		if _, ok := e.pending[id]; !ok {
			return ResultIgnored
		}
		delete(e.pending, id)
		return e.addBoilerplate(ev.Buffer)

	case BufferClosed:
		delete(e.pending, id)
	}
	return ResultIgnored
}

// Run dispatches events from src until ctx is done or the source closes.
func (e *Engine) Run(ctx context.Context, src FileEventSource) error {
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			result := e.Dispatch(ev)
			e.logger.Debug("event handled", "kind", ev.Kind, "result", result)
		}
	}
}

// addBoilerplate appends boilerplate to buf when every guard passes.
func (e *Engine) addBoilerplate(buf Buffer) Result {
	path := buf.Path()
	if path == "" {
		return ResultNoPath
	}
	if !resolver.IsClassFile(path) {
		return ResultNotClassFile
	}
	if !buf.IsEmpty() {
		return ResultNotEmpty
	}

	info, err := e.stat(path)
	if err != nil {
		e.logger.Debug("stat failed, skipping", "path", path, "error", err)
		return ResultStatFailed
	}
	settings := e.Settings()
	if age := e.now().Sub(creationTime(info)); age > settings.StaleAfter {
		e.logger.Debug("file is not new, skipping", "path", path, "age", age)
		return ResultStale
	}

	id, ok := e.Resolve(path)
	if !ok {
		e.logger.Debug("no namespace rule matches", "path", path)
		return ResultNoRule
	}

	text, err := format.ForIdentity(id, settings)
	if err != nil {
		e.logger.Warn("cannot render boilerplate", "path", path, "error", err)
		return ResultFormatFailed
	}
	if err := buf.Append(text); err != nil {
		e.logger.Warn("failed to append boilerplate", "path", path, "error", err)
		return ResultAppendFailed
	}

	e.logger.Info("added namespace boilerplate", "path", path, "namespace", id.Namespace, "class", id.ClassName)
	return ResultAppended
}

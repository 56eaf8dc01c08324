package lsp

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/leapstack-labs/phpns/internal/config"
	"github.com/leapstack-labs/phpns/internal/engine"
	"github.com/leapstack-labs/phpns/internal/workspace"
	"github.com/leapstack-labs/phpns/pkg/core"
)

// CommandReloadNamespaces rebuilds the rule table from composer.json.
const CommandReloadNamespaces = "phpns.reloadNamespaces"

// settingsStore is the engine's ConfigProvider for an LSP session.
type settingsStore struct {
	mu       sync.RWMutex
	settings core.Settings
}

func newSettingsStore() *settingsStore {
	return &settingsStore{settings: core.DefaultSettings()}
}

// Settings implements engine.ConfigProvider.
func (st *settingsStore) Settings() core.Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings
}

func (st *settingsStore) set(s core.Settings) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.settings = s
}

// clientSettings is the client-side spelling of the settings, used in
// initializationOptions and workspace/didChangeConfiguration. Unset fields
// keep their current value.
type clientSettings struct {
	NamespaceStyle         *string `json:"namespaceStyle"`
	IncludeClassDefinition *bool   `json:"includeClassDefinition"`
	IncludeAutoloadDev     *bool   `json:"includeAutoloadDev"`
}

// decodeClientSettings accepts either the settings object itself or one
// nested under a "phpns" key.
func decodeClientSettings(raw json.RawMessage) (clientSettings, error) {
	var cs clientSettings
	var section map[string]json.RawMessage
	if err := json.Unmarshal(raw, &section); err != nil {
		return cs, fmt.Errorf("settings must be an object: %w", err)
	}
	if nested, ok := section["phpns"]; ok {
		raw = nested
	}
	if err := json.Unmarshal(raw, &cs); err != nil {
		return cs, fmt.Errorf("invalid phpns settings: %w", err)
	}
	return cs, nil
}

// applyClientJSON merges client settings into the store. It reports
// whether the set of loaded manifest sections changed.
func (st *settingsStore) applyClientJSON(raw json.RawMessage) (bool, error) {
	cs, err := decodeClientSettings(raw)
	if err != nil {
		return false, err
	}

	next := st.Settings()
	if cs.NamespaceStyle != nil {
		style, err := core.ParseNamespaceStyle(*cs.NamespaceStyle)
		if err != nil {
			return false, err
		}
		next.NamespaceStyle = style
	}
	if cs.IncludeClassDefinition != nil {
		next.IncludeClassDefinition = *cs.IncludeClassDefinition
	}
	devChanged := false
	if cs.IncludeAutoloadDev != nil {
		devChanged = next.IncludeAutoloadDev != *cs.IncludeAutoloadDev
		next.IncludeAutoloadDev = *cs.IncludeAutoloadDev
	}

	st.set(next)
	return devChanged, nil
}

// loadProjectDefaults reads phpns.yaml from the first root into the store
// and returns the extra roots it lists.
func (st *settingsStore) loadProjectDefaults(roots []string, logger *slog.Logger) []string {
	if len(roots) == 0 {
		return nil
	}
	cfg, err := config.LoadFromDir(roots[0])
	if err != nil {
		logger.Warn("Ignoring invalid project config", "root", roots[0], "error", err)
		return nil
	}
	if cfg == nil {
		return nil
	}
	st.set(cfg.Settings)
	logger.Info("Loaded project config", "root", roots[0], "namespace_style", cfg.NamespaceStyle)
	return cfg.Roots
}

// rootsFromParams lists the workspace folders, falling back to rootUri.
func rootsFromParams(params InitializeParams) []string {
	var roots []string
	for _, f := range params.WorkspaceFolders {
		if p := URIToPath(f.URI); p != "" {
			roots = append(roots, p)
		}
	}
	if len(roots) == 0 && params.RootURI != "" {
		if p := URIToPath(params.RootURI); p != "" {
			roots = append(roots, p)
		}
	}
	return roots
}

// ReloadResult is the result of the reload command.
type ReloadResult struct {
	Roots []string `json:"roots"`
	Rules int      `json:"rules"`
}

func (s *Server) handleExecuteCommand(msg *JSONRPCMessage) error {
	var params ExecuteCommandParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	switch params.Command {
	case CommandReloadNamespaces:
		s.engine.Dispatch(engine.Event{Kind: engine.ReloadRequested})
		s.sendResponse(msg.ID, ReloadResult{
			Roots: s.engine.Roots(),
			Rules: s.engine.Table().Len(),
		}, nil)
		s.republishDiagnostics()
	default:
		s.sendResponse(msg.ID, nil, &JSONRPCError{
			Code:    codeInvalidParams,
			Message: "unknown command: " + params.Command,
		})
	}
	return nil
}

func (s *Server) handleDidChangeConfiguration(msg *JSONRPCMessage) error {
	var params DidChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	if len(params.Settings) == 0 || string(params.Settings) == "null" {
		return nil
	}

	devChanged, err := s.settings.applyClientJSON(params.Settings)
	if err != nil {
		s.sendNotification("window/showMessage", &ShowMessageParams{
			Type:    MessageTypeWarning,
			Message: "phpns: " + err.Error(),
		})
		return err
	}
	s.logger.Info("Configuration changed", "settings", s.settings.Settings())

	if devChanged {
		s.engine.Dispatch(engine.Event{Kind: engine.ReloadRequested})
		s.republishDiagnostics()
	}
	return nil
}

func (s *Server) handleDidChangeWorkspaceFolders(msg *JSONRPCMessage) error {
	var params DidChangeWorkspaceFoldersParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	removed := make([]string, 0, len(params.Event.Removed))
	for _, f := range params.Event.Removed {
		removed = append(removed, workspace.NormalizeRoot(URIToPath(f.URI)))
	}

	roots := slices.DeleteFunc(s.roots.Roots(), func(r string) bool {
		return slices.Contains(removed, r)
	})
	for _, f := range params.Event.Added {
		if p := URIToPath(f.URI); p != "" {
			roots = append(roots, p)
		}
	}
	s.roots.Set(roots)

	s.engine.Dispatch(engine.Event{Kind: engine.ReloadRequested})
	s.logger.Info("Workspace folders changed", "roots", s.roots.Roots())
	s.republishDiagnostics()
	return nil
}

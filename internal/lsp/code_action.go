package lsp

import (
	"encoding/json"
	"slices"

	"github.com/leapstack-labs/phpns/pkg/format"
)

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	actions := s.getCodeActions(params)
	s.sendResponse(msg.ID, actions, nil)
	return nil
}

// getCodeActions returns the namespace fixes available for a document.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	actions := []CodeAction{}

	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return actions
	}
	check := s.checkNamespace(doc)
	uri := params.TextDocument.URI
	ns := check.expected.Namespace

	switch check.state {
	case namespaceEmpty:
		if !wantsKind(params.Context.Only, CodeActionKindSource) {
			return actions
		}
		text, _, ok := s.engine.Boilerplate(check.path)
		if !ok {
			return actions
		}
		actions = append(actions, CodeAction{
			Title:       "Add namespace boilerplate",
			Kind:        CodeActionKindSource,
			IsPreferred: true,
			Edit:        singleEdit(uri, Range{}, text),
		})

	case namespaceMissing:
		if !wantsKind(params.Context.Only, CodeActionKindQuickFix) {
			return actions
		}
		at := check.openTagEnd
		actions = append(actions, CodeAction{
			Title:       "Insert namespace " + ns,
			Kind:        CodeActionKindQuickFix,
			Diagnostics: matching(params.Context.Diagnostics, codeMissingNamespace),
			IsPreferred: true,
			Edit:        singleEdit(uri, Range{Start: at, End: at}, "\n\n"+trimNewline(format.NamespaceLine(ns))),
		})

	case namespaceMismatch:
		if !wantsKind(params.Context.Only, CodeActionKindQuickFix) {
			return actions
		}
		actions = append(actions, CodeAction{
			Title:       "Change namespace to " + ns,
			Kind:        CodeActionKindQuickFix,
			Diagnostics: matching(params.Context.Diagnostics, codeNamespaceMismatch),
			IsPreferred: true,
			Edit:        singleEdit(uri, check.declRange, ns),
		})
	}

	return actions
}

// wantsKind applies the client's "only" filter; an empty filter allows all.
func wantsKind(only []CodeActionKind, kind CodeActionKind) bool {
	return len(only) == 0 || slices.Contains(only, kind)
}

// matching picks our diagnostics with the given code.
func matching(diags []Diagnostic, code string) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Source == diagnosticSource && d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func singleEdit(uri string, r Range, text string) *WorkspaceEdit {
	return &WorkspaceEdit{
		Changes: map[string][]TextEdit{
			uri: {{Range: r, NewText: text}},
		},
	}
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}

package lsp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/phpns/internal/resolver"
	"github.com/leapstack-labs/phpns/pkg/core"
	"github.com/leapstack-labs/phpns/pkg/format"
)

// Diagnostic codes.
const (
	codeMissingNamespace  = "missing-namespace"
	codeNamespaceMismatch = "namespace-mismatch"
)

const diagnosticSource = "phpns"

// namespaceDecl matches a namespace statement at the start of a line,
// including the `<?php namespace X;` form. PHP names may use any
// non-ASCII character.
var namespaceDecl = regexp.MustCompile(`(?m)^[ \t]*(?:<\?php[ \t]+)?namespace[ \t]+(\\?` +
	phpName + `(?:\\` + phpName + `)*)[ \t]*[;{]`)

const phpName = `[A-Za-z_\x{80}-\x{10FFFF}][A-Za-z0-9_\x{80}-\x{10FFFF}]*`

type namespaceState int

const (
	// namespaceUnchecked: not a mapped class file, or nothing to compare.
	namespaceUnchecked namespaceState = iota
	namespaceEmpty
	namespaceMissing
	namespaceMismatch
	namespaceOK
)

// namespaceCheck compares a document's declaration with its mapping.
type namespaceCheck struct {
	state    namespaceState
	path     string
	expected core.Identity

	// declared and declRange locate the declared name on mismatch.
	declared  string
	declRange Range

	// openTagEnd is the end of the line holding the open tag.
	openTagEnd Position
}

// checkNamespace resolves the document's file and inspects its
// namespace declaration.
func (s *Server) checkNamespace(doc *Document) namespaceCheck {
	path := URIToPath(doc.URI)
	if path == "" || !resolver.IsClassFile(path) {
		return namespaceCheck{}
	}
	id, ok := s.engine.Resolve(path)
	if !ok || id.Namespace == "" {
		return namespaceCheck{}
	}

	check := namespaceCheck{path: path, expected: id}
	if doc.Content == "" {
		check.state = namespaceEmpty
		return check
	}

	if m := namespaceDecl.FindStringSubmatchIndex(doc.Content); m != nil {
		check.declared = strings.TrimPrefix(doc.Content[m[2]:m[3]], core.NamespaceSeparator)
		check.declRange = Range{Start: doc.OffsetToPosition(m[2]), End: doc.OffsetToPosition(m[3])}
		if check.declared == id.Namespace {
			check.state = namespaceOK
		} else {
			check.state = namespaceMismatch
		}
		return check
	}

	tag := strings.Index(doc.Content, format.OpenTag)
	if tag < 0 {
		return namespaceCheck{}
	}
	lineEnd := strings.IndexByte(doc.Content[tag:], '\n')
	if lineEnd < 0 {
		lineEnd = len(doc.Content) - tag
	}
	check.openTagEnd = doc.OffsetToPosition(tag + lineEnd)
	check.state = namespaceMissing
	return check
}

// publishDiagnostics checks the document's namespace and publishes the result.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := []Diagnostic{}
	check := s.checkNamespace(doc)
	switch check.state {
	case namespaceMissing:
		diagnostics = append(diagnostics, Diagnostic{
			Range:    Range{Start: Position{}, End: check.openTagEnd},
			Severity: DiagnosticSeverityWarning,
			Code:     codeMissingNamespace,
			Source:   diagnosticSource,
			Message:  fmt.Sprintf("Missing namespace declaration, expected %s", check.expected.Namespace),
		})
	case namespaceMismatch:
		diagnostics = append(diagnostics, Diagnostic{
			Range:    check.declRange,
			Severity: DiagnosticSeverityInformation,
			Code:     codeNamespaceMismatch,
			Source:   diagnosticSource,
			Message: fmt.Sprintf("Namespace %s does not match composer.json autoload, expected %s",
				check.declared, check.expected.Namespace),
		})
	}

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// republishDiagnostics refreshes every open document after a reload.
func (s *Server) republishDiagnostics() {
	for _, uri := range s.documents.List() {
		s.publishDiagnostics(uri)
	}
}

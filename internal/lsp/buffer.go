package lsp

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/leapstack-labs/phpns/internal/engine"
)

// appendLabel names the workspace edit that adds boilerplate.
const appendLabel = "phpns: add namespace"

// lspBuffer is an open editor document seen as an engine buffer.
// Appending asks the client to apply an edit; the document store learns
// the new content through the didChange that follows.
type lspBuffer struct {
	server *Server
	uri    string
}

var _ engine.Buffer = (*lspBuffer)(nil)

func (s *Server) buffer(uri string) *lspBuffer {
	return &lspBuffer{server: s, uri: uri}
}

func (b *lspBuffer) ID() string { return b.uri }

// Path is "" for documents without a file behind them (untitled:).
func (b *lspBuffer) Path() string { return URIToPath(b.uri) }

func (b *lspBuffer) IsEmpty() bool {
	doc := b.server.documents.Get(b.uri)
	return doc != nil && doc.Content == ""
}

func (b *lspBuffer) Append(text string) error {
	doc := b.server.documents.Get(b.uri)
	if doc == nil {
		return fmt.Errorf("document %s is not open", b.uri)
	}

	end := doc.EndPosition()
	b.server.sendRequest(uuid.NewString(), "workspace/applyEdit", appendLabel, ApplyWorkspaceEditParams{
		Label: appendLabel,
		Edit: WorkspaceEdit{
			Changes: map[string][]TextEdit{
				b.uri: {{Range: Range{Start: end, End: end}, NewText: text}},
			},
		},
	})
	return nil
}

package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phpns/internal/cli/config"
	"github.com/leapstack-labs/phpns/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. Project roots
come from the client's workspace folders (or rootUri); settings come from
phpns.yaml in the first root and the client's initializationOptions.
Logs go to stderr.`,
		Example: `  # Start LSP server (usually called by an editor)
  phpns lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	logger := config.GetLogger(cmd.Context())
	server := lsp.NewServerWithLogger(os.Stdin, os.Stdout, logger, lsp.WithVersion(version))
	return server.Run()
}

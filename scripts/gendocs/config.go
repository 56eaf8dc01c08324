package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	intconfig "github.com/leapstack-labs/phpns/internal/config"
	"github.com/leapstack-labs/phpns/pkg/core"
)

// ConfigField is one phpns.yaml key.
type ConfigField struct {
	Name        string
	Type        string
	Description string
	LSPSetting  string // camelCase key under "phpns" in client settings, if any
}

func configFields() []ConfigField {
	styles := make([]string, 0, 3)
	for _, s := range core.NamespaceStyles() {
		styles = append(styles, s.String())
	}
	return []ConfigField{
		{Name: "roots", Type: "[]string", Description: "Project roots, relative to the config file"},
		{Name: "namespace_style", Type: "string", Description: "Namespace placement: " + strings.Join(styles, ", "), LSPSetting: "namespaceStyle"},
		{Name: "include_class_definition", Type: "bool", Description: "Add an empty class named after the file", LSPSetting: "includeClassDefinition"},
		{Name: "include_autoload_dev", Type: "bool", Description: "Also read autoload-dev rules", LSPSetting: "includeAutoloadDev"},
		{Name: "stale_after", Type: "duration", Description: "Files created longer ago than this are left alone"},
		{Name: "verbose", Type: "bool", Description: "Debug logging (CLI only)"},
		{Name: "output", Type: "string", Description: "Output format: auto, text, markdown, json (CLI only)"},
	}
}

// generateConfigDocs writes the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, configurationPage(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}

func configurationPage() []byte {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "phpns configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("phpns reads %s (or %s) from the project root. Environment variables use the %s prefix and flags override both.",
		InlineCode(intconfig.ConfigFileName), InlineCode(intconfig.ConfigFileNameAlt), InlineCode("PHPNS_")))

	defaults := intconfig.Defaults()
	headers := []string{"Key", "Type", "Default", "Description"}
	var rows [][]string
	for _, f := range configFields() {
		def := "-"
		if v, ok := defaults[f.Name]; ok {
			def = InlineCode(fmt.Sprint(v))
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, def, f.Description})
	}
	w.Table(headers, rows)

	w.Header(2, "Editor Settings")
	w.Paragraph("The language server also accepts these keys under " + InlineCode("phpns") + " in initializationOptions and workspace/didChangeConfiguration:")
	var lspRows [][]string
	for _, f := range configFields() {
		if f.LSPSetting != "" {
			lspRows = append(lspRows, []string{InlineCode(f.LSPSetting), InlineCode(f.Name)})
		}
	}
	w.Table([]string{"Setting", "Config key"}, lspRows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `# phpns.yaml
namespace_style: next-line
include_class_definition: true
include_autoload_dev: true
stale_after: 1s
roots:
  - packages/billing`)

	return w.Bytes()
}

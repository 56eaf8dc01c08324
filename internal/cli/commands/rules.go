package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phpns/internal/cli/output"
	"github.com/leapstack-labs/phpns/pkg/core"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Namespace string // Filter by namespace prefix
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List namespace mapping rules",
		Long: `List the directory-to-namespace rules loaded from the composer.json of
every project root, in match order.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  phpns rules

  # Include autoload-dev rules
  phpns rules --include-autoload-dev

  # Rules under one namespace, as JSON
  phpns rules --namespace 'App\' -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Namespace, "namespace", "", "Only show rules whose namespace starts with this prefix")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	prefix := strings.TrimPrefix(opts.Namespace, core.NamespaceSeparator)
	var rules []core.MappingRule
	for _, rule := range cmdCtx.Engine.Table().Rules() {
		if strings.HasPrefix(rule.Namespace, prefix) {
			rules = append(rules, rule)
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		if rules == nil {
			rules = []core.MappingRule{}
		}
		return r.JSON(rules)
	}

	if len(rules) == 0 {
		r.Warning("No namespace rules found")
		return nil
	}

	multiRoot := len(cmdCtx.Roots.Roots()) > 1
	header := []string{"Directory", "Namespace", "Autoload"}
	if multiRoot {
		header = append([]string{"Root"}, header...)
	}

	rows := make([][]string, 0, len(rules))
	for _, rule := range rules {
		row := []string{displayPrefix(rule.Prefix), displayNamespace(rule.Namespace), autoloadLabel(rule)}
		if multiRoot {
			row = append([]string{rule.Root}, row...)
		}
		rows = append(rows, row)
	}
	r.Table(header, rows)
	return nil
}

func displayPrefix(prefix string) string {
	if prefix == "" {
		return "./"
	}
	return prefix
}

func displayNamespace(ns string) string {
	if ns == "" {
		return "(global)"
	}
	return ns
}

func autoloadLabel(rule core.MappingRule) string {
	if rule.Dev {
		return rule.Dialect + " (dev)"
	}
	return rule.Dialect
}

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phpns/internal/cli/output"
	"github.com/leapstack-labs/phpns/pkg/core"
)

// Resolution is the JSON output for one resolved file.
type Resolution struct {
	File      string `json:"file"`
	Resolved  bool   `json:"resolved"`
	Namespace string `json:"namespace,omitempty"`
	ClassName string `json:"class,omitempty"`
	Root      string `json:"root,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Print the namespace a file belongs to",
		Long: `Resolve PHP files against the autoload rules of composer.json and print
the namespace and class name each file would receive.

The command fails when any file does not resolve, so it can be used in
scripts and pre-commit hooks.`,
		Example: `  # Resolve one file
  phpns resolve src/Models/User.php

  # Resolve several files as JSON
  phpns resolve -o json src/Http/Kernel.php tests/Unit/UserTest.php`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args)
		},
	}
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	results := make([]Resolution, 0, len(args))
	misses := 0
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", arg, err)
		}
		res := Resolution{File: arg}
		if id, ok := cmdCtx.Engine.Resolve(path); ok {
			res.Resolved = true
			res.Namespace = id.Namespace
			res.ClassName = id.ClassName
			res.Root, _, _ = cmdCtx.Roots.Relativize(path)
		} else {
			misses++
		}
		results = append(results, res)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(results); err != nil {
			return err
		}
	default:
		renderResolutions(r, results)
	}

	if misses > 0 {
		return fmt.Errorf("%d of %d files did not resolve", misses, len(args))
	}
	return nil
}

func renderResolutions(r *output.Renderer, results []Resolution) {
	if len(results) == 1 && results[0].Resolved {
		r.Println(qualifiedName(results[0]))
		return
	}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		if !res.Resolved {
			rows = append(rows, []string{res.File, "-", "-"})
			continue
		}
		rows = append(rows, []string{res.File, res.Namespace, res.ClassName})
	}
	r.Table([]string{"File", "Namespace", "Class"}, rows)

	for _, res := range results {
		if !res.Resolved {
			r.Warning(res.File + ": no autoload rule matches")
		}
	}
}

// qualifiedName is the fully qualified class name of a resolved file.
func qualifiedName(res Resolution) string {
	if res.Namespace == "" {
		return res.ClassName
	}
	return res.Namespace + core.NamespaceSeparator + res.ClassName
}

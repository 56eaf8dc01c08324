package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phpns/internal/cli/output"
	"github.com/leapstack-labs/phpns/internal/watch"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Write bool // Write boilerplate into the file instead of printing it
}

// GenerateOutput is the JSON output for the generate command.
type GenerateOutput struct {
	File        string `json:"file"`
	Namespace   string `json:"namespace"`
	ClassName   string `json:"class"`
	Boilerplate string `json:"boilerplate"`
	Written     bool   `json:"written"`
}

// ErrFileNotEmpty is returned by generate --write for files with content.
var ErrFileNotEmpty = errors.New("file is not empty")

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Render namespace boilerplate for a file",
		Long: `Render the boilerplate a new PHP class file would receive: the open tag,
the namespace declaration and, unless disabled, an empty class.

By default the text is printed. With --write it is written to the file,
which is created when missing and must otherwise be empty. Unlike the
editor integration, --write does not check how old the file is.`,
		Example: `  # Print boilerplate
  phpns generate src/Models/Invoice.php

  # Create the file with boilerplate, namespace on the tag line
  phpns generate --write --namespace-style same-line src/Models/Invoice.php`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write boilerplate to the file")

	return cmd
}

func runGenerate(cmd *cobra.Command, file string, opts *GenerateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	path, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", file, err)
	}

	text, id, ok := cmdCtx.Engine.Boilerplate(path)
	if !ok {
		return fmt.Errorf("%s: no autoload rule matches", file)
	}

	result := GenerateOutput{
		File:        file,
		Namespace:   id.Namespace,
		ClassName:   id.ClassName,
		Boilerplate: text,
	}

	if opts.Write {
		if err := writeBoilerplate(path, text); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}
		result.Written = true
		cmdCtx.Logger.Debug("wrote boilerplate", "path", path, "namespace", id.Namespace)
	}

	switch {
	case r.EffectiveMode() == output.ModeJSON:
		return r.JSON(result)
	case opts.Write:
		r.Success(fmt.Sprintf("Wrote %s", qualifiedName(Resolution{Namespace: id.Namespace, ClassName: id.ClassName})))
	default:
		// Raw text so the output can be redirected into a file.
		_, _ = fmt.Fprint(r.Writer(), text)
	}
	return nil
}

// writeBoilerplate creates path with text, or appends to it when it exists
// and is empty.
func writeBoilerplate(path, text string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return err
		}
		return os.WriteFile(path, []byte(text), 0600)
	case err != nil:
		return err
	case info.IsDir():
		return fmt.Errorf("%s is a directory", path)
	}

	buf := watch.NewFileBuffer(path)
	if !buf.IsEmpty() {
		return ErrFileNotEmpty
	}
	return buf.Append(text)
}

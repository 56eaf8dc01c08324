package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/phpns/internal/cli/config"
	intconfig "github.com/leapstack-labs/phpns/internal/config"
	"github.com/leapstack-labs/phpns/pkg/core"
)

const configHeader = `# phpns configuration
# namespace_style: same-line | next-line | psr-2
# stale_after: files older than this when opened are left alone
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a phpns.yaml configuration file",
		Long: `Write phpns.yaml with the current settings into a project directory.

Settings given as flags or PHPNS_* environment variables are written to
the file, so

  phpns init --namespace-style same-line

records that style for the editor integration and the CLI.`,
		Example: `  # Initialize in current directory
  phpns init

  # Initialize another project, enabling autoload-dev rules
  phpns init ../billing --include-autoload-dev

  # Force overwrite existing config
  phpns init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if existing := intconfig.FindConfigFile(dir); existing != "" && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", filepath.Base(existing))
	}

	data, err := marshalProjectConfig(cmdCtx.Cfg.Settings)
	if err != nil {
		return err
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	r.StatusLine(config.ConfigFileName, "success", "")

	if _, err := os.Stat(filepath.Join(dir, core.ManifestFileName)); err != nil {
		r.StatusLine(core.ManifestFileName, "warning", "not found; namespaces come from its autoload section")
	}

	r.Println("")
	r.Success("phpns project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'phpns rules' to see the namespace mappings")
	r.Println("  2. Run 'phpns doctor' to check the setup")
	r.Println("  3. Point your editor at 'phpns lsp', or run 'phpns watch'")

	return nil
}

// marshalProjectConfig renders phpns.yaml for settings.
func marshalProjectConfig(settings core.Settings) ([]byte, error) {
	settings.ApplyDefaults()
	body, err := yaml.Marshal(intconfig.ProjectConfig{Settings: settings})
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append([]byte(configHeader), body...), nil
}

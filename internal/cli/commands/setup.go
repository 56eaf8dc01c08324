package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phpns/internal/cli/config"
	"github.com/leapstack-labs/phpns/internal/cli/output"
	"github.com/leapstack-labs/phpns/internal/engine"
	"github.com/leapstack-labs/phpns/internal/loader"
	"github.com/leapstack-labs/phpns/internal/workspace"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Roots    *workspace.Roots
	Report   *loader.Report
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a loaded engine and a
// renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	cmdCtx.Roots = workspace.NewRoots(cmdCtx.Cfg.EffectiveRoots()...)
	cmdCtx.Engine = engine.New(engine.Config{
		Roots:    cmdCtx.Roots,
		Settings: engine.StaticSettings(cmdCtx.Cfg.Settings),
		Logger:   cmdCtx.Logger,
	})
	_, cmdCtx.Report = cmdCtx.Engine.Reload()

	return cmdCtx
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't read composer.json.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or defaults when the root
// command did not load one (commands run on their own in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

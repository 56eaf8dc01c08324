package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/phpns/internal/watch"
)

// ErrNoRoots is returned when there is nothing to watch.
var ErrNoRoots = errors.New("no project roots to watch")

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Add namespace boilerplate to new PHP files",
		Long: `Watch the project roots and add namespace boilerplate to every new, empty
PHP class file, as an editor integration would.

Dependency directories (vendor, node_modules) and dot-directories are not
watched. Send SIGHUP to reload the autoload rules after composer.json
changes.`,
		Example: `  # Watch the current project
  phpns watch

  # Watch two roots with autoload-dev rules
  phpns watch --root api --root web --include-autoload-dev

  # Reload rules
  kill -HUP $(pgrep -f "phpns watch")`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd)
		},
	}
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	logger := cmdCtx.Logger

	roots := cmdCtx.Roots.Roots()
	if len(roots) == 0 {
		return ErrNoRoots
	}

	w, err := watch.New(roots, logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	hup := make(chan os.Signal, 1)
	if len(reloadSignals) > 0 {
		signal.Notify(hup, reloadSignals...)
		defer signal.Stop(hup)
	}

	for _, root := range roots {
		r.StatusLine(root, "success", "")
	}
	r.Success("Watching for new PHP files (Ctrl+C to stop)")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})
	g.Go(func() error {
		// Returns once the watcher closes its event channel.
		return cmdCtx.Engine.Run(context.WithoutCancel(gctx), w)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case sig := <-hup:
				logger.Info("reload requested", "signal", sig.String())
				w.RequestReload()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Debug("watch stopped")
	return nil
}

package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/6686-repos/dsmodinstaller/internal/app"
	"github.com/6686-repos/dsmodinstaller/internal/logfields"
	"github.com/6686-repos/dsmodinstaller/internal/logging"
)

// SyncCmd implements the 'sync' command: the sequence without the launch step.
type SyncCmd struct{}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	rt, err := root.load(g)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	comps, err := app.NewComponents(rt.cfg, rt.logger, nil)
	if err != nil {
		return err
	}
	if root.Verbose {
		progress := logging.NewLineWriter(rt.logger, slog.LevelDebug, "git progress", logfields.Step("sync"))
		defer func() { _ = progress.Close() }()
		comps.Syncer.WithProgress(progress)
	}
	a := app.New(comps.Syncer, comps.Installer, comps.Launcher(nil), app.WithLogger(rt.logger))
	if err := a.RunOnce(ctx); err != nil {
		return err
	}
	rt.logger.Info("Repository synchronized and dependencies installed")
	return nil
}

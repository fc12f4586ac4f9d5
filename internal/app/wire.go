package app

import (
	"context"
	"log/slog"

	"github.com/6686-repos/dsmodinstaller/internal/config"
	"github.com/6686-repos/dsmodinstaller/internal/git"
	"github.com/6686-repos/dsmodinstaller/internal/install"
	"github.com/6686-repos/dsmodinstaller/internal/logfields"
	"github.com/6686-repos/dsmodinstaller/internal/metrics"
	"github.com/6686-repos/dsmodinstaller/internal/supervisor"
)

// Components are the production steps built from a configuration.
type Components struct {
	Paths      config.Paths
	Syncer     *git.Client
	Installer  *install.Installer
	Supervisor *supervisor.Supervisor
}

// NewComponents resolves paths and builds the sync, install and launch steps.
func NewComponents(cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (*Components, error) {
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	sup := supervisor.New(cfg.Launch, paths.Repo, cfg.StopGracePeriod(), logger,
		supervisor.WithExitFunc(func(_, code int) {
			recorder.IncChildExit(code)
			recorder.SetChildRunning(false)
		}))
	return &Components{
		Paths:      paths,
		Syncer:     git.NewClient(paths, cfg.Repository, logger),
		Installer:  install.NewInstaller(cfg.Install, paths.Repo, logger),
		Supervisor: sup,
	}, nil
}

// Launcher adapts the supervisor for the orchestrator and records child starts.
func (c *Components) Launcher(recorder metrics.Recorder) Launcher {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &recordingLauncher{Supervisor: c.Supervisor, recorder: recorder}
}

type recordingLauncher struct {
	*supervisor.Supervisor
	recorder metrics.Recorder
}

func (l *recordingLauncher) Start(ctx context.Context) error {
	if err := l.Supervisor.Start(ctx); err != nil {
		return err
	}
	l.recorder.IncChildStart()
	l.recorder.SetChildRunning(true)
	return nil
}

// Reloader returns a config.ReloadFunc that applies a new configuration to the next
// sequence. The AppData location is fixed for the lifetime of the process.
func Reloader(a *App, c *Components, logger *slog.Logger) config.ReloadFunc {
	return func(cfg *config.Config) {
		paths, err := cfg.ResolvePaths()
		if err != nil {
			logger.Error("Failed to apply reloaded configuration", logfields.Error(err))
			return
		}
		if paths.AppData != c.Paths.AppData {
			logger.Warn("Changing the data directory requires a restart of the application",
				logfields.Path(paths.AppData))
			paths = c.Paths
		}
		a.SetSteps(git.NewClient(paths, cfg.Repository, logger), install.NewInstaller(cfg.Install, paths.Repo, logger))
		c.Supervisor.Configure(cfg.Launch, paths.Repo, cfg.StopGracePeriod())
		logger.Info("Configuration reloaded, changes apply to the next restart")
	}
}

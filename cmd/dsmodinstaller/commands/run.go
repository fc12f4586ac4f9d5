package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"sync/atomic"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/6686-repos/dsmodinstaller/internal/app"
	"github.com/6686-repos/dsmodinstaller/internal/config"
	"github.com/6686-repos/dsmodinstaller/internal/logfields"
	"github.com/6686-repos/dsmodinstaller/internal/metrics"
	"github.com/6686-repos/dsmodinstaller/internal/tray"
	"github.com/6686-repos/dsmodinstaller/internal/update"
	"github.com/6686-repos/dsmodinstaller/internal/version"
)

// RunCmd implements the default 'run' command.
type RunCmd struct {
	NoWatch bool `name:"no-watch" help:"Do not reload the configuration file when it changes"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	rt, err := root.load(g)
	if err != nil {
		return err
	}
	logger := rt.logger
	logger.Info("Starting", logfields.Version(version.Version), logfields.Path(rt.paths.AppData))

	ctx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if rt.cfg.Metrics.ListenAddress != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	comps, err := app.NewComponents(rt.cfg, logger, recorder)
	if err != nil {
		return err
	}

	// The first quit wins: a sequence failing after Exit cancelled it keeps code 0.
	var exitCode atomic.Int32
	exitCode.Store(-1)
	quit := func(code int) {
		exitCode.CompareAndSwap(-1, int32(code)) // #nosec G115 -- exit codes are small
		cancel()
	}
	orchestrator := app.New(comps.Syncer, comps.Installer, comps.Launcher(recorder),
		app.WithLogger(logger), app.WithRecorder(recorder), app.WithQuit(quit))

	checker := update.NewChecker(rt.cfg.Update.FeedURL, version.Version,
		update.NewDialogEvents(update.ZenityDialogs{}, &update.SelfApplier{Shutdown: orchestrator.Exit, Logger: logger}, logger),
		update.WithLogger(logger), update.WithRecorder(recorder))

	ctrl := tray.NewController(rt.cfg.App.Title, tray.LoadIcon(rt.paths.Icon, logger), orchestrator, logger)

	// Every exit path funnels through ctx: Exit, initial failure, and OS signals.
	go func() {
		<-ctx.Done()
		ctrl.Quit()
	}()

	onReady := func() {
		r.startBackground(ctx, root, rt, orchestrator, comps, checker, registry)
		go func() { _ = orchestrator.Initialize(ctx) }()
	}
	onExit := func() {
		logger.Info("Shutting down")
		orchestrator.Shutdown()
	}
	ctrl.Run(ctx, onReady, onExit)

	if code := int(exitCode.Load()); code > 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func (r *RunCmd) startBackground(ctx context.Context, root *CLI, rt *runtime, orchestrator *app.App,
	comps *app.Components, checker *update.Checker, registry *prom.Registry) {
	logger := rt.logger
	configPath := root.Config

	if checker.Enabled() {
		go func() { _ = checker.Check(ctx) }()
		if interval := rt.cfg.UpdateCheckInterval(); interval > 0 {
			if _, err := checker.Schedule(ctx, interval); err != nil {
				logger.Warn("Periodic update checks disabled", logfields.Error(err))
			}
		}
	}

	if registry != nil {
		go func() {
			if err := metrics.Serve(ctx, rt.cfg.Metrics.ListenAddress, registry, logger); err != nil {
				logger.Error("Metrics endpoint failed", logfields.Error(err))
			}
		}()
	}

	if !r.NoWatch {
		reload := app.Reloader(orchestrator, comps, logger)
		watcher, err := config.NewWatcher(configPath, func(cfg *config.Config) {
			reload(cfg)
			if !root.Verbose {
				rt.sinks.SetLevel(cfg.Logging.Level)
			}
		}, logger)
		if err != nil {
			logger.Warn("Configuration watching disabled", logfields.Error(err))
			return
		}
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("Configuration watching disabled", logfields.Error(err))
			return
		}
		go func() {
			<-ctx.Done()
			watcher.Stop()
		}()
		logger.Debug("Watching configuration", slog.String("path", configPath))
	}
}

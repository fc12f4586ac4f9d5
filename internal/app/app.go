package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	ferrors "github.com/6686-repos/dsmodinstaller/internal/foundation/errors"
	"github.com/6686-repos/dsmodinstaller/internal/git"
	"github.com/6686-repos/dsmodinstaller/internal/logfields"
	"github.com/6686-repos/dsmodinstaller/internal/metrics"
)

// Syncer brings the working copy up to date.
type Syncer interface {
	Sync(ctx context.Context) (git.Result, error)
}

// Installer installs the working copy's dependencies.
type Installer interface {
	Install(ctx context.Context) error
}

// Launcher owns the supervised child process.
type Launcher interface {
	Start(ctx context.Context) error
	Stop()
}

// QuitFunc ends the application with the given exit code.
type QuitFunc func(code int)

// App runs sequences one at a time and owns the lifecycle state.
type App struct {
	launcher Launcher
	recorder metrics.Recorder
	logger   *slog.Logger
	errors   *ferrors.CLIErrorAdapter
	quit     QuitFunc

	busy     atomic.Bool
	exitOnce sync.Once

	mu        sync.Mutex
	state     State
	syncer    Syncer
	installer Installer
}

// Option customizes an App.
type Option func(*App)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(a *App) { a.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(a *App) { a.logger = l } }

// WithQuit sets the function that terminates the application.
func WithQuit(fn QuitFunc) Option { return func(a *App) { a.quit = fn } }

// New creates an orchestrator in the Idle state.
func New(syncer Syncer, installer Installer, launcher Launcher, opts ...Option) *App {
	a := &App{
		syncer:    syncer,
		installer: installer,
		launcher:  launcher,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		quit:      func(int) {},
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.errors = ferrors.NewCLIErrorAdapter(false, a.logger)
	return a
}

// State returns the current lifecycle state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// SetSteps replaces the sync and install steps; the change applies to the next sequence.
func (a *App) SetSteps(syncer Syncer, installer Installer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.syncer, a.installer = syncer, installer
}

// Initialize runs the first sequence. On failure the error is logged with its hint and
// the application quits with the category exit code.
func (a *App) Initialize(ctx context.Context) error {
	a.logger.Info("Starting initialization")
	ran, err := a.run(ctx, TriggerInitial)
	if !ran {
		return nil
	}
	if err != nil {
		a.launcher.Stop()
		// Exit or a signal cancelled ctx and has already chosen the exit code.
		if ctx.Err() != nil {
			a.logger.Info("Initialization cancelled", logfields.Error(err))
			return err
		}
		a.logger.Error("Initialization failed", logfields.Error(err))
		a.quit(a.errors.ExitCodeFor(err))
		return err
	}
	a.logger.Info("Initialization completed successfully")
	return nil
}

// Restart stops the running child and runs the sequence again. Failures are logged and
// returned; the application stays open. A Restart while a sequence is in flight is
// ignored.
func (a *App) Restart(ctx context.Context) error {
	if !a.busy.CompareAndSwap(false, true) {
		a.logger.Warn("Restart ignored, sequence already running", logfields.State(string(a.State())))
		a.recorder.IncSequenceOutcome(string(TriggerRestart), "skipped")
		return nil
	}
	defer a.busy.Store(false)

	a.launcher.Stop()
	err := a.sequence(ctx, TriggerRestart)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		a.logger.Info("Restart cancelled", logfields.Error(err))
	default:
		a.logger.Error("Failed to restart process", logfields.Error(err))
	}
	return err
}

// RunOnce runs sync and install without launching, for headless use.
func (a *App) RunOnce(ctx context.Context) error {
	if !a.busy.CompareAndSwap(false, true) {
		return ferrors.InternalError("sequence already running").Build()
	}
	defer a.busy.Store(false)
	return a.steps(ctx, TriggerCLI, false)
}

// Exit stops the child and quits with code 0. Only the first call has an effect.
func (a *App) Exit() {
	a.exitOnce.Do(func() {
		a.logger.Info("Exit requested")
		a.launcher.Stop()
		a.quit(0)
	})
}

// Shutdown stops the child. It runs on every application exit path.
func (a *App) Shutdown() {
	a.launcher.Stop()
}

func (a *App) run(ctx context.Context, trigger Trigger) (bool, error) {
	if !a.busy.CompareAndSwap(false, true) {
		a.logger.Warn("Sequence already running", logfields.Trigger(string(trigger)))
		return false, nil
	}
	defer a.busy.Store(false)
	return true, a.sequence(ctx, trigger)
}

func (a *App) sequence(ctx context.Context, trigger Trigger) error {
	return a.steps(ctx, trigger, true)
}

// steps runs sync, install and optionally launch in order, stopping at the first
// failure. The returned error is always classified.
func (a *App) steps(ctx context.Context, trigger Trigger, launch bool) error {
	a.mu.Lock()
	syncer, installer := a.syncer, a.installer
	a.mu.Unlock()

	logger := a.logger.With(logfields.SequenceID(uuid.NewString()), logfields.Trigger(string(trigger)))
	start := time.Now()

	a.setState(logger, StateSyncing)
	err := a.step(ctx, logger, StepSync, func() error {
		res, err := syncer.Sync(ctx)
		if err == nil {
			logger.Info("Repository synchronized", slog.String("op", string(res.Op)), logfields.Commit(res.Commit))
		}
		return err
	})
	if err == nil {
		a.setState(logger, StateInstalling)
		err = a.step(ctx, logger, StepInstall, func() error { return installer.Install(ctx) })
	}
	if err == nil && launch {
		a.setState(logger, StateLaunching)
		err = a.step(ctx, logger, StepLaunch, func() error { return a.launcher.Start(ctx) })
	}

	a.recorder.ObserveSequenceDuration(time.Since(start))
	if err != nil {
		a.setState(logger, StateFailed)
		if ctx.Err() != nil {
			a.recorder.IncSequenceOutcome(string(trigger), "cancelled")
			return err
		}
		a.recorder.IncSequenceOutcome(string(trigger), "failed")
		a.errors.LogError(err)
		return err
	}
	if launch {
		a.setState(logger, StateRunning)
		a.recorder.IncSequenceOutcome(string(trigger), "running")
	} else {
		a.setState(logger, StateIdle)
		a.recorder.IncSequenceOutcome(string(trigger), "installed")
	}
	return nil
}

func (a *App) step(ctx context.Context, logger *slog.Logger, name string, fn func() error) error {
	start := time.Now()
	logger.InfoContext(ctx, "Step started", logfields.Step(name))
	err := fn()
	a.recorder.ObserveStepDuration(name, time.Since(start))
	if err != nil {
		a.recorder.IncStepResult(name, metrics.ResultFailed)
		ce := Classify(name, err)
		if ctx.Err() != nil {
			logger.Info("Step cancelled", logfields.Step(name), logfields.Error(err))
			return ce
		}
		logger.ErrorContext(ctx, "Step failed", logfields.Step(name), logfields.Category(string(ce.Category())),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		return ce
	}
	a.recorder.IncStepResult(name, metrics.ResultSuccess)
	logger.InfoContext(ctx, "Step completed", logfields.Step(name),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

func (a *App) setState(logger *slog.Logger, s State) {
	a.mu.Lock()
	prev := a.state
	a.state = s
	a.mu.Unlock()
	if prev != s {
		logger.Debug("State changed", slog.String("from", string(prev)), logfields.State(string(s)))
	}
}

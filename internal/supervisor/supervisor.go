package supervisor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/6686-repos/dsmodinstaller/internal/config"
	"github.com/6686-repos/dsmodinstaller/internal/install"
	"github.com/6686-repos/dsmodinstaller/internal/logfields"
)

// ExitFunc is called once for every child that exits.
type ExitFunc func(pid, exitCode int)

// Supervisor holds at most one child process.
type Supervisor struct {
	logger  *slog.Logger
	spawner Spawner
	onExit  ExitFunc

	mu       sync.Mutex
	cfg      config.CommandConfig
	repoPath string
	grace    time.Duration
	current  Handle
}

// Option customizes a Supervisor.
type Option func(*Supervisor)

// WithSpawner replaces the process spawner.
func WithSpawner(sp Spawner) Option { return func(s *Supervisor) { s.spawner = sp } }

// WithExitFunc registers a callback for child exits.
func WithExitFunc(fn ExitFunc) Option { return func(s *Supervisor) { s.onExit = fn } }

// New creates a supervisor launching cfg inside repoPath.
func New(cfg config.CommandConfig, repoPath string, grace time.Duration, logger *slog.Logger, opts ...Option) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Supervisor{logger: logger, spawner: ExecSpawner{}, cfg: cfg, repoPath: repoPath, grace: grace}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure replaces the launch settings used by the next Start.
func (s *Supervisor) Configure(cfg config.CommandConfig, repoPath string, grace time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg, s.repoPath, s.grace = cfg, repoPath, grace
}

// Start terminates the held child, if any, without waiting for it, then launches a
// new one and holds it. A launch failure leaves no child held.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.terminateLocked(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	line := install.CommandLine(s.cfg)
	h, err := s.spawner.Spawn(s.cfg, s.repoPath, s.logger)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to start child process", logfields.Command(line), logfields.Error(err))
		return err
	}
	s.current = h
	s.logger.InfoContext(ctx, "Child process started", logfields.Command(line), logfields.PID(h.PID()), logfields.Path(s.repoPath))
	go s.watch(h)
	return nil
}

// Stop signals the held child, even one that already exited, and releases it.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminateLocked(context.Background())
}

// Running reports whether a held child has not exited yet.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	select {
	case <-s.current.Done():
		return false
	default:
		return true
	}
}

// PID returns the held child's pid, or 0.
func (s *Supervisor) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	return s.current.PID()
}

func (s *Supervisor) terminateLocked(ctx context.Context) {
	if s.current == nil {
		return
	}
	h := s.current
	s.current = nil
	s.logger.InfoContext(ctx, "Terminating child process", logfields.PID(h.PID()))
	if err := h.Terminate(s.grace); err != nil {
		s.logger.WarnContext(ctx, "Failed to signal child process", logfields.PID(h.PID()), logfields.Error(err))
	}
}

func (s *Supervisor) watch(h Handle) {
	<-h.Done()
	code := h.ExitCode()
	s.logger.Info("Child process exited", logfields.PID(h.PID()), logfields.ExitCode(code))
	if s.onExit != nil {
		s.onExit(h.PID(), code)
	}
}

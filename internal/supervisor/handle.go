package supervisor

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/6686-repos/dsmodinstaller/internal/config"
	"github.com/6686-repos/dsmodinstaller/internal/install"
	"github.com/6686-repos/dsmodinstaller/internal/logfields"
	"github.com/6686-repos/dsmodinstaller/internal/logging"
)

// Handle is a started child process.
type Handle interface {
	PID() int
	// Terminate signals the process and returns without waiting. If it is still
	// alive after grace it is killed. A grace of zero kills immediately.
	// Terminating an exited process is a no-op.
	Terminate(grace time.Duration) error
	// Done is closed once the process has exited.
	Done() <-chan struct{}
	// ExitCode is valid after Done is closed; -1 when killed by a signal.
	ExitCode() int
}

// Spawner starts child processes.
type Spawner interface {
	Spawn(cfg config.CommandConfig, dir string, logger *slog.Logger) (Handle, error)
}

// ExecSpawner starts real OS processes in their own process group.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(cfg config.CommandConfig, dir string, logger *slog.Logger) (Handle, error) {
	if err := install.LookPath(cfg); err != nil {
		return nil, &install.SpawnError{Command: install.CommandLine(cfg), Err: err}
	}
	cmd := install.Command(cfg, dir)
	setProcessGroup(cmd)
	stdout := logging.NewLineWriter(logger, slog.LevelInfo, "child output", logfields.Stream("stdout"))
	stderr := logging.NewLineWriter(logger, slog.LevelWarn, "child output", logfields.Stream("stderr"))
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Grandchildren holding the pipes open must not block Wait forever.
	cmd.WaitDelay = 2 * time.Second

	if err := cmd.Start(); err != nil {
		return nil, &install.SpawnError{Command: install.CommandLine(cfg), Err: err}
	}

	h := &processHandle{cmd: cmd, done: make(chan struct{}), exitCode: -1}
	go func() {
		_ = cmd.Wait()
		_ = stdout.Close()
		_ = stderr.Close()
		if cmd.ProcessState != nil {
			h.exitCode = cmd.ProcessState.ExitCode()
		}
		close(h.done)
	}()
	return h, nil
}

type processHandle struct {
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
}

func (h *processHandle) PID() int              { return h.cmd.Process.Pid }
func (h *processHandle) Done() <-chan struct{} { return h.done }

func (h *processHandle) ExitCode() int {
	select {
	case <-h.done:
		return h.exitCode
	default:
		return -1
	}
}

func (h *processHandle) Terminate(grace time.Duration) error {
	select {
	case <-h.done:
		return nil
	default:
	}
	if grace <= 0 {
		return forceKill(h.cmd.Process)
	}
	if err := terminate(h.cmd.Process); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return err
	}
	go func() {
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-h.done:
		case <-timer.C:
			// The process group may already be gone; ESRCH is harmless.
			_ = forceKill(h.cmd.Process)
		}
	}()
	return nil
}

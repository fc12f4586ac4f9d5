package update

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/minio/selfupdate"

	"github.com/6686-repos/dsmodinstaller/internal/logfields"
)

// SelfApplier replaces the running executable and relaunches it.
type SelfApplier struct {
	// Shutdown stops the supervised child and quits the application. It is called
	// after the new process has been started.
	Shutdown func()
	// Args are passed to the relaunched process; nil reuses os.Args[1:].
	Args []string
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Apply swaps the running binary for artifactPath, starts the new binary and shuts
// this process down.
func (a *SelfApplier) Apply(artifactPath string) error {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.Open(artifactPath) // #nosec G304 -- path produced by the verified download
	if err != nil {
		return fmt.Errorf("open update: %w", err)
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(artifactPath)
	}()

	if err := selfupdate.Apply(f, selfupdate.Options{}); err != nil {
		if rerr := selfupdate.RollbackError(err); rerr != nil {
			logger.Error("Failed to roll back after a failed update", logfields.Error(rerr))
		}
		return fmt.Errorf("apply update: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	args := a.Args
	if args == nil {
		args = os.Args[1:]
	}
	// #nosec G204 -- relaunching our own executable
	cmd := exec.Command(exe, args...)
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("relaunch: %w", err)
	}
	logger.Info("Update installed, relaunching", logfields.PID(cmd.Process.Pid), logfields.Path(exe))
	_ = cmd.Process.Release()

	if a.Shutdown != nil {
		a.Shutdown()
	}
	return nil
}

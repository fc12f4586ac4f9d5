package install

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/6686-repos/dsmodinstaller/internal/config"
	"github.com/6686-repos/dsmodinstaller/internal/logfields"
	"github.com/6686-repos/dsmodinstaller/internal/logging"
)

// Installer runs the configured install command inside the working copy.
type Installer struct {
	cfg      config.CommandConfig
	repoPath string
	logger   *slog.Logger
}

// NewInstaller creates an installer for repoPath. A nil logger uses slog.Default.
func NewInstaller(cfg config.CommandConfig, repoPath string, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Installer{cfg: cfg, repoPath: repoPath, logger: logger}
}

// Install runs the command to completion. Output is logged line by line as it
// arrives and retained for the error returned on a non-zero exit.
func (i *Installer) Install(ctx context.Context) error {
	line := CommandLine(i.cfg)
	start := time.Now()
	i.logger.Info("Starting dependency install", logfields.Command(line), logfields.Path(i.repoPath))

	if err := LookPath(i.cfg); err != nil {
		i.logger.Error("Failed to start install command", logfields.Command(line), logfields.Error(err))
		return &SpawnError{Command: line, Err: err}
	}
	cmd := CommandContext(ctx, i.cfg, i.repoPath)
	stdout := &tailBuffer{max: i.cfg.MaxOutputBytes}
	stderr := &tailBuffer{max: i.cfg.MaxOutputBytes}
	outLog := logging.NewLineWriter(i.logger, slog.LevelInfo, "install output", logfields.Stream("stdout"))
	errLog := logging.NewLineWriter(i.logger, slog.LevelWarn, "install output", logfields.Stream("stderr"))
	cmd.Stdout = io.MultiWriter(stdout, outLog)
	cmd.Stderr = io.MultiWriter(stderr, errLog)

	if err := cmd.Start(); err != nil {
		i.logger.Error("Failed to start install command", logfields.Command(line), logfields.Error(err))
		return &SpawnError{Command: line, Err: err}
	}
	err := cmd.Wait()
	_ = outLog.Close()
	_ = errLog.Close()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return &SpawnError{Command: line, Err: err}
		}
		ie := &InstallError{Command: line, ExitCode: exitErr.ExitCode(), Stdout: stdout.String(), Stderr: stderr.String()}
		i.logger.Error("Dependency install failed", logfields.Command(line), logfields.ExitCode(ie.ExitCode),
			logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		return ie
	}

	i.logger.Info("Dependency install completed", logfields.Command(line), logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

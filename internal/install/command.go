package install

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/6686-repos/dsmodinstaller/internal/config"
)

// CommandLine renders cfg as a single display string.
func CommandLine(cfg config.CommandConfig) string {
	if len(cfg.Args) == 0 {
		return cfg.Command
	}
	return cfg.Command + " " + strings.Join(cfg.Args, " ")
}

// Command builds an unstarted command for cfg with dir as working directory and the
// inherited environment. Shell commands go through cmd /C on Windows and sh -c elsewhere.
func Command(cfg config.CommandConfig, dir string) *exec.Cmd {
	name, args := argv(cfg)
	// #nosec G204 -- the command line comes from the local configuration file
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	return cmd
}

// CommandContext is Command bound to ctx; cancelling ctx kills the process.
func CommandContext(ctx context.Context, cfg config.CommandConfig, dir string) *exec.Cmd {
	name, args := argv(cfg)
	// #nosec G204 -- the command line comes from the local configuration file
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	return cmd
}

func argv(cfg config.CommandConfig) (string, []string) {
	if !cfg.Shell {
		return cfg.Command, cfg.Args
	}
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", CommandLine(cfg)}
	}
	return "sh", []string{"-c", CommandLine(cfg)}
}

// LookPath reports whether the program named by cfg can be found. Without a shell
// exec.Cmd.Start performs the lookup itself. Behind sh -c or cmd /C a missing program
// only shows up as exit status 127 or 9009, so it is checked up front. Commands given
// as a path are left to the shell.
func LookPath(cfg config.CommandConfig) error {
	if !cfg.Shell || strings.ContainsAny(cfg.Command, `/\`) {
		return nil
	}
	_, err := exec.LookPath(cfg.Command)
	return err
}

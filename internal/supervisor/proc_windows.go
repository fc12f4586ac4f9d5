//go:build windows

package supervisor

import (
	"errors"
	"os"
	"os/exec"
)

func setProcessGroup(*exec.Cmd) {}

// Windows has no SIGTERM for console children; terminate is an immediate kill.
func terminate(p *os.Process) error {
	return p.Kill()
}

func forceKill(p *os.Process) error {
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

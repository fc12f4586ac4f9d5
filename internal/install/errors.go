package install

import "fmt"

// InstallError reports an install command that ran but exited non-zero.
type InstallError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("%s failed with code %d\nOutput: %s\nErrors: %s", e.Command, e.ExitCode, e.Stdout, e.Stderr)
}

// SpawnError reports a command whose executable could not be started.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

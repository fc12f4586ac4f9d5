package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ferrors "github.com/6686-repos/dsmodinstaller/internal/foundation/errors"
	"github.com/6686-repos/dsmodinstaller/internal/git"
	"github.com/6686-repos/dsmodinstaller/internal/install"
)

const (
	hintSync    = "Failed to clone/pull repository. Please check your internet connection and try again."
	hintInstall = "Failed to install dependencies. Check the error log above for details.\n" +
		"Common solutions:\n" +
		"1. Check your internet connection\n" +
		"2. Clear npm cache (run npm cache clean --force)\n" +
		"3. Delete node_modules folder and try again"
)

// Classify maps a step failure to a classified error carrying the remediation hint.
// Errors that are already classified are returned unchanged.
func Classify(step string, err error) *ferrors.ClassifiedError {
	if err == nil {
		return nil
	}
	if ce, ok := ferrors.AsClassified(err); ok {
		return ce
	}

	var syncErr *git.SyncError
	var installErr *install.InstallError
	var spawnErr *install.SpawnError
	switch {
	case errors.As(err, &syncErr):
		b := ferrors.WrapError(err, ferrors.CategorySync, "Git operation failed").
			Fatal().
			WithHint(syncHint(syncErr.Kind)).
			WithContext("op", syncErr.Op).
			WithContext("kind", string(syncErr.Kind)).
			WithContext("url", syncErr.URL)
		if syncErr.Kind == git.KindNetwork {
			b = b.Manual()
		} else {
			b = b.UserAction()
		}
		return b.Build()

	case errors.As(err, &spawnErr):
		return ferrors.WrapError(err, ferrors.CategorySpawn, fmt.Sprintf("Failed to start %s", executable(spawnErr.Command))).
			Fatal().
			UserAction().
			WithHint(fmt.Sprintf("Failed to start %s. Please ensure %s is installed and accessible in your PATH.",
				executable(spawnErr.Command), executable(spawnErr.Command))).
			WithContext("step", step).
			WithContext("command", spawnErr.Command).
			Build()

	case errors.As(err, &installErr):
		return ferrors.WrapError(err, ferrors.CategoryInstall, fmt.Sprintf("%s failed with code %d", installErr.Command, installErr.ExitCode)).
			Fatal().
			Manual().
			WithHint(hintInstall).
			WithContext("exit_code", installErr.ExitCode).
			WithContext("command", installErr.Command).
			Build()

	default:
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "Initialization failed").
			Fatal().
			WithContext("step", step).
			Build()
	}
}

func syncHint(kind git.Kind) string {
	switch kind {
	case git.KindAuth:
		return "Failed to clone/pull repository. Check the repository credentials in the configuration."
	case git.KindNotFound:
		return "Failed to clone/pull repository. Check that repository.url points to an existing repository."
	case git.KindConflict, git.KindNotRepository:
		return "Failed to pull repository. The local working copy has diverged or is damaged; delete it to force a fresh clone."
	default:
		return hintSync
	}
}

func executable(commandLine string) string {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return commandLine
	}
	return filepath.Base(fields[0])
}

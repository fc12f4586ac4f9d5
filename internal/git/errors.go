package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Kind classifies why a sync failed.
type Kind string

const (
	KindAuth          Kind = "auth"
	KindNotFound      Kind = "not_found"
	KindNetwork       Kind = "network"
	KindConflict      Kind = "conflict"       // local changes or diverged history block the pull
	KindNotRepository Kind = "not_repository" // the working copy directory is not a git repository
	KindFileSystem    Kind = "filesystem"
	KindUnknown       Kind = "unknown"
)

// SyncError reports a failed clone or pull.
type SyncError struct {
	Op   string
	URL  string
	Path string
	Kind Kind
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("git %s failed for %s: %v", e.Op, e.URL, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

func newSyncError(op Op, url, path string, err error) *SyncError {
	return &SyncError{Op: string(op), URL: url, Path: path, Kind: classify(err), Err: err}
}

// classify maps go-git sentinels first and falls back to message heuristics for
// transport errors that are only available as text.
func classify(err error) Kind {
	switch {
	case errors.Is(err, transport.ErrAuthenticationRequired), errors.Is(err, transport.ErrAuthorizationFailed):
		return KindAuth
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return KindNotFound
	case errors.Is(err, git.ErrRepositoryNotExists):
		return KindNotRepository
	case errors.Is(err, git.ErrNonFastForwardUpdate), errors.Is(err, git.ErrUnstagedChanges):
		return KindConflict
	}

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "invalid username or password"):
		return KindAuth
	case strings.Contains(l, "repository not found") || strings.Contains(l, "repository does not exist"):
		return KindNotFound
	case strings.Contains(l, "no such host") || strings.Contains(l, "connection refused") || strings.Contains(l, "connection reset") ||
		strings.Contains(l, "timeout") || strings.Contains(l, "network is unreachable") || strings.Contains(l, "no route to host"):
		return KindNetwork
	case strings.Contains(l, "non-fast-forward") || strings.Contains(l, "conflict") || strings.Contains(l, "unstaged changes"):
		return KindConflict
	case strings.Contains(l, "permission denied") || strings.Contains(l, "no space left") || strings.Contains(l, "read-only file system"):
		return KindFileSystem
	default:
		return KindUnknown
	}
}

package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/6686-repos/dsmodinstaller/internal/config"
	"github.com/6686-repos/dsmodinstaller/internal/logfields"
)

// Op names the operation a sync performed.
type Op string

const (
	OpClone Op = "clone"
	OpPull  Op = "pull"
)

// Result describes a successful sync.
type Result struct {
	Op       Op
	Commit   string // short hash of HEAD after the sync
	UpToDate bool   // pull found nothing new
}

// Client handles Git operations for one repository.
type Client struct {
	appDataPath string
	repoPath    string
	repo        config.RepositoryConfig
	progress    io.Writer
	logger      *slog.Logger
}

// NewClient creates a client syncing repo into paths.Repo. A nil logger uses slog.Default.
func NewClient(paths config.Paths, repo config.RepositoryConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{appDataPath: paths.AppData, repoPath: paths.Repo, repo: repo, logger: logger}
}

// WithProgress sends go-git's sideband progress output to w (fluent helper).
func (c *Client) WithProgress(w io.Writer) *Client { c.progress = w; return c }

// RepoPath returns the working copy location.
func (c *Client) RepoPath() string { return c.repoPath }

// EnsureWorkspace creates the application data directory if needed.
func (c *Client) EnsureWorkspace() error {
	if err := os.MkdirAll(c.appDataPath, 0o750); err != nil {
		return &SyncError{Op: "mkdir", URL: c.repo.URL, Path: c.appDataPath, Kind: KindFileSystem, Err: err}
	}
	return nil
}

// Sync clones the repository if the working copy is absent, otherwise pulls.
func (c *Client) Sync(ctx context.Context) (Result, error) {
	if err := c.EnsureWorkspace(); err != nil {
		return Result{}, err
	}
	if _, err := os.Stat(c.repoPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Result{}, &SyncError{Op: "stat", URL: c.repo.URL, Path: c.repoPath, Kind: KindFileSystem, Err: err}
		}
		c.logger.Info("Repository not found, attempting to clone", logfields.URL(c.repo.URL), logfields.Path(c.repoPath))
		return c.clone(ctx)
	}
	c.logger.Info("Repository exists, pulling latest changes", logfields.Path(c.repoPath))
	return c.pull(ctx)
}

func (c *Client) clone(ctx context.Context) (Result, error) {
	opts := &git.CloneOptions{URL: c.repo.URL, Progress: c.progress}
	if c.repo.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.repo.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(c.repo.Auth)
	if err != nil {
		return Result{}, &SyncError{Op: string(OpClone), URL: c.repo.URL, Path: c.repoPath, Kind: KindAuth, Err: err}
	}
	opts.Auth = auth

	repository, err := git.PlainCloneContext(ctx, c.repoPath, false, opts)
	if err != nil {
		// A failed clone leaves a partial directory behind, which would turn the next
		// run into a pull against a broken working copy.
		if rmErr := os.RemoveAll(c.repoPath); rmErr != nil {
			c.logger.Warn("Failed to remove partial clone", logfields.Path(c.repoPath), logfields.Error(rmErr))
		}
		return Result{}, newSyncError(OpClone, c.repo.URL, c.repoPath, err)
	}

	res := Result{Op: OpClone, Commit: shortHead(repository)}
	c.logger.Info("Repository cloned successfully", logfields.URL(c.repo.URL), logfields.Commit(res.Commit), logfields.Path(c.repoPath))
	return res, nil
}

func (c *Client) pull(ctx context.Context) (Result, error) {
	repository, err := git.PlainOpen(c.repoPath)
	if err != nil {
		return Result{}, newSyncError(OpPull, c.repo.URL, c.repoPath, err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return Result{}, newSyncError(OpPull, c.repo.URL, c.repoPath, fmt.Errorf("worktree: %w", err))
	}

	opts := &git.PullOptions{RemoteName: git.DefaultRemoteName, Progress: c.progress}
	if c.repo.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.repo.Branch)
	}
	auth, err := authMethod(c.repo.Auth)
	if err != nil {
		return Result{}, &SyncError{Op: string(OpPull), URL: c.repo.URL, Path: c.repoPath, Kind: KindAuth, Err: err}
	}
	opts.Auth = auth

	err = wt.PullContext(ctx, opts)
	upToDate := errors.Is(err, git.NoErrAlreadyUpToDate)
	if err != nil && !upToDate {
		return Result{}, newSyncError(OpPull, c.repo.URL, c.repoPath, err)
	}

	res := Result{Op: OpPull, Commit: shortHead(repository), UpToDate: upToDate}
	if upToDate {
		c.logger.Info("Repository already up-to-date", logfields.Commit(res.Commit), logfields.Path(c.repoPath))
	} else {
		c.logger.Info("Repository updated successfully", logfields.Commit(res.Commit), logfields.Path(c.repoPath))
	}
	return res, nil
}

func shortHead(repository *git.Repository) string {
	ref, err := repository.Head()
	if err != nil {
		return ""
	}
	return ref.Hash().String()[:8]
}

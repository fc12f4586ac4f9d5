package update

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ferrors "github.com/6686-repos/dsmodinstaller/internal/foundation/errors"
	"github.com/6686-repos/dsmodinstaller/internal/logfields"
	"github.com/6686-repos/dsmodinstaller/internal/metrics"
)

// maxFeedBytes bounds the feed document; latest.yml is a few hundred bytes.
const maxFeedBytes = 1 << 20

// Events receives the outcome of a check.
type Events interface {
	UpdateAvailable(rel *Release)
	UpdateDownloaded(rel *Release, artifactPath string)
	Error(err error)
}

// Status is the result of comparing the feed with the running version.
type Status struct {
	Current string
	Latest  *Release
	Newer   bool
}

// Checker compares the feed with the running version and downloads newer builds.
type Checker struct {
	feedURL  string
	current  string
	client   *http.Client
	events   Events
	recorder metrics.Recorder
	logger   *slog.Logger

	mu         sync.Mutex // serializes checks
	downloaded string     // version already downloaded and handed to Events
}

// Option customizes a Checker.
type Option func(*Checker)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(ch *Checker) { ch.client = c } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(ch *Checker) { ch.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(ch *Checker) { ch.logger = l } }

// NewChecker creates a checker for feedURL. current is the running version.
func NewChecker(feedURL, current string, events Events, opts ...Option) *Checker {
	c := &Checker{
		feedURL:  feedURL,
		current:  current,
		client:   &http.Client{Timeout: 10 * time.Minute},
		events:   events,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a feed is configured.
func (c *Checker) Enabled() bool { return c.feedURL != "" }

// Latest fetches the feed and compares it with the running version without downloading.
func (c *Checker) Latest(ctx context.Context) (Status, error) {
	st := Status{Current: c.current}
	if !c.Enabled() {
		return st, fmt.Errorf("no update feed configured")
	}
	body, err := fetch(ctx, c.client, c.feedURL)
	if err != nil {
		return st, fmt.Errorf("fetch update feed: %w", err)
	}
	defer func() { _ = body.Close() }()
	data, err := io.ReadAll(io.LimitReader(body, maxFeedBytes))
	if err != nil {
		return st, fmt.Errorf("read update feed: %w", err)
	}
	rel, err := ParseFeed(data)
	if err != nil {
		return st, err
	}
	st.Latest = rel
	st.Newer = IsNewer(rel.Version, c.current)
	return st, nil
}

// Check runs one full check: compare, announce, download, verify, hand over. Errors are
// classified as update warnings, reported to Events.Error and returned. A version that
// was already downloaded is not fetched again.
func (c *Checker) Check(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cause := c.check(ctx)
	if cause == nil {
		return nil
	}
	err := ferrors.UpdateError("AutoUpdater error").
		WithCause(cause).
		WithContext("feed_url", c.feedURL).
		Build()
	c.recorder.IncUpdateCheck(metrics.UpdateFailed)
	c.logger.Warn("AutoUpdater error", logfields.URL(c.feedURL), logfields.Error(cause))
	if c.events != nil {
		c.events.Error(err)
	}
	return err
}

func (c *Checker) check(ctx context.Context) error {
	c.logger.Info("Checking for update", logfields.URL(c.feedURL), logfields.Version(c.current))
	st, err := c.Latest(ctx)
	if err != nil {
		return err
	}
	if !st.Newer {
		c.recorder.IncUpdateCheck(metrics.UpdateUpToDate)
		c.logger.Info("Update not available", logfields.Version(st.Latest.Version))
		return nil
	}
	if st.Latest.Version == c.downloaded {
		c.logger.Debug("Update already downloaded", logfields.Version(st.Latest.Version))
		return nil
	}

	c.recorder.IncUpdateCheck(metrics.UpdateAvailable)
	c.logger.Info("Update available", logfields.Version(st.Latest.Version))
	if c.events != nil {
		c.events.UpdateAvailable(st.Latest)
	}

	artifact, err := st.Latest.Artifact()
	if err != nil {
		return err
	}
	u, err := resolveURL(c.feedURL, artifact.URL)
	if err != nil {
		return err
	}
	path, err := download(ctx, c.client, u, artifact)
	if err != nil {
		return err
	}

	c.downloaded = st.Latest.Version
	c.recorder.IncUpdateCheck(metrics.UpdateDownloaded)
	c.logger.Info("Update downloaded", logfields.Version(st.Latest.Version), logfields.Path(path))
	if c.events != nil {
		c.events.UpdateDownloaded(st.Latest, path)
	}
	return nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	ferrors "github.com/6686-repos/dsmodinstaller/internal/foundation/errors"
	"github.com/6686-repos/dsmodinstaller/internal/update"
	"github.com/6686-repos/dsmodinstaller/internal/version"
)

// CheckUpdateCmd implements the 'check-update' command.
type CheckUpdateCmd struct {
	FeedURL string        `name:"feed-url" help:"Override update.feed_url"`
	Timeout time.Duration `help:"Request timeout" default:"30s"`

	out io.Writer
}

func (c *CheckUpdateCmd) Run(g *Global, root *CLI) error {
	rt, err := root.load(g)
	if err != nil {
		return err
	}
	feed := rt.cfg.Update.FeedURL
	if c.FeedURL != "" {
		feed = c.FeedURL
	}
	if c.Timeout <= 0 {
		return ferrors.ValidationError("--timeout must be positive").
			WithContext("value", c.Timeout.String()).
			Build()
	}
	if feed == "" {
		return ferrors.ConfigError("no update feed configured").
			WithHint("Set update.feed_url in the configuration or pass --feed-url.").
			Build()
	}
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	checker := update.NewChecker(feed, version.Version, nil,
		update.WithLogger(rt.logger), update.WithHTTPClient(&http.Client{Timeout: c.Timeout}))
	st, err := checker.Latest(ctx)
	if err != nil {
		return ferrors.UpdateError("Update check failed").
			WithCause(err).
			WithContext("feed_url", feed).
			Build()
	}
	if st.Newer {
		_, _ = fmt.Fprintf(out, "Update available: %s (running %s)\n", st.Latest.Version, st.Current)
	} else {
		_, _ = fmt.Fprintf(out, "Up to date: running %s, latest %s\n", st.Current, st.Latest.Version)
	}
	return nil
}

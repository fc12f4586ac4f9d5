package update

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/6686-repos/dsmodinstaller/internal/logfields"
)

// Schedule runs Check every interval until ctx is cancelled or the returned stop
// function is called. Overlapping runs are rescheduled rather than queued.
func (c *Checker) Schedule(ctx context.Context, interval time.Duration) (func() error, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { _ = c.Check(ctx) }),
		gocron.WithName("update-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create update check job: %w", err)
	}

	c.logger.Info("Scheduling periodic update checks", slog.Duration("interval", interval), logfields.URL(c.feedURL))
	s.Start()

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Shutdown()
		case <-stopped:
		}
	}()
	return func() error {
		close(stopped)
		return s.Shutdown()
	}, nil
}

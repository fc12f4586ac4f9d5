package tray

import (
	"context"
	"log/slog"
	"sync"

	"fyne.io/systray"

	"github.com/6686-repos/dsmodinstaller/internal/logfields"
)

// Handler receives menu commands.
type Handler interface {
	Restart(ctx context.Context) error
	Exit()
}

// Controller owns the tray icon and menu.
type Controller struct {
	title   string
	icon    []byte
	handler Handler
	logger  *slog.Logger

	readyOnce sync.Once
}

// NewController creates a controller. icon is an encoded image from LoadIcon.
func NewController(title string, icon []byte, handler Handler, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{title: title, icon: icon, handler: handler, logger: logger}
}

// Run shows the tray and blocks until Quit. onReady runs once the tray exists; onExit
// runs when the loop ends. Must be called from the main goroutine.
func (c *Controller) Run(ctx context.Context, onReady, onExit func()) {
	systray.Run(func() {
		c.readyOnce.Do(func() {
			c.build(ctx)
			if onReady != nil {
				onReady()
			}
		})
	}, func() {
		if onExit != nil {
			onExit()
		}
	})
}

// Quit ends the event loop started by Run.
func (c *Controller) Quit() { systray.Quit() }

func (c *Controller) build(ctx context.Context) {
	if len(c.icon) > 0 {
		systray.SetIcon(c.icon)
	}
	systray.SetTooltip(c.title)

	for _, item := range MenuModel(c.title) {
		if item.Separator {
			systray.AddSeparator()
			continue
		}
		mi := systray.AddMenuItem(item.Label, item.Label)
		if item.ShowIcon && len(c.icon) > 0 {
			mi.SetIcon(c.icon)
		}
		if item.Disabled {
			mi.Disable()
			continue
		}
		go c.listen(ctx, mi.ClickedCh, item.Action)
	}
	c.logger.Debug("Tray ready", slog.String("title", c.title))
}

func (c *Controller) listen(ctx context.Context, clicks <-chan struct{}, action Action) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-clicks:
			if !ok {
				return
			}
			go c.dispatch(ctx, action)
		}
	}
}

// dispatch runs a menu command. Restart failures are logged and the tray stays usable.
func (c *Controller) dispatch(ctx context.Context, action Action) {
	c.logger.Info("Tray menu clicked", slog.String("action", action.String()))
	switch action {
	case ActionRestart:
		if err := c.handler.Restart(ctx); err != nil {
			c.logger.Error("Failed to restart process", logfields.Error(err))
		}
	case ActionExit:
		c.handler.Exit()
	case ActionNone:
	}
}

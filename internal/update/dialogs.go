package update

import (
	"errors"
	"log/slog"

	"github.com/ncruces/zenity"

	"github.com/6686-repos/dsmodinstaller/internal/logfields"
)

// Dialogs shows modal message boxes.
type Dialogs interface {
	Info(title, message, button string) error
}

// ZenityDialogs shows native dialogs through zenity.
type ZenityDialogs struct{}

func (ZenityDialogs) Info(title, message, button string) error {
	return zenity.Info(message, zenity.Title(title), zenity.OKLabel(button), zenity.InfoIcon)
}

// Applier installs a downloaded artifact and restarts the utility.
type Applier interface {
	Apply(artifactPath string) error
}

// DialogEvents surfaces update events to the user and applies downloaded updates.
type DialogEvents struct {
	dialogs Dialogs
	applier Applier
	logger  *slog.Logger
	async   func(func())
}

// NewDialogEvents creates the interactive event handler. A nil logger uses slog.Default.
func NewDialogEvents(dialogs Dialogs, applier Applier, logger *slog.Logger) *DialogEvents {
	if logger == nil {
		logger = slog.Default()
	}
	return &DialogEvents{dialogs: dialogs, applier: applier, logger: logger, async: func(fn func()) { go fn() }}
}

// UpdateAvailable shows an informational dialog without blocking the download.
func (e *DialogEvents) UpdateAvailable(rel *Release) {
	e.async(func() {
		err := e.dialogs.Info("Update Available",
			"A new version is available. The update will be downloaded automatically.", "OK")
		if err != nil && !errors.Is(err, zenity.ErrCanceled) {
			e.logger.Warn("Failed to show update dialog", logfields.Version(rel.Version), logfields.Error(err))
		}
	})
}

// UpdateDownloaded asks the user to restart and applies the update once the dialog
// is dismissed.
func (e *DialogEvents) UpdateDownloaded(rel *Release, artifactPath string) {
	e.async(func() {
		err := e.dialogs.Info("Update Ready",
			"Update has been downloaded. The application will restart to install the update.", "Restart")
		if err != nil && !errors.Is(err, zenity.ErrCanceled) {
			e.logger.Warn("Failed to show update dialog", logfields.Version(rel.Version), logfields.Error(err))
		}
		if err := e.applier.Apply(artifactPath); err != nil {
			e.logger.Error("Failed to install update", logfields.Version(rel.Version), logfields.Path(artifactPath), logfields.Error(err))
		}
	})
}

// Error only logs; the checker already logged the failure with context.
func (e *DialogEvents) Error(err error) {
	e.logger.Debug("Update check failed", logfields.Error(err))
}

package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives a freshly loaded configuration.
type ReloadFunc func(*Config)

// Watcher monitors the configuration file and reloads it after edits settle.
type Watcher struct {
	configPath   string
	onReload     ReloadFunc
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	logger       *slog.Logger

	mu       sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
	reload   chan struct{}
}

// NewWatcher creates a watcher for configPath. Call Start to begin watching. A nil
// logger uses slog.Default.
func NewWatcher(configPath string, onReload ReloadFunc, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		configPath:   absPath,
		onReload:     onReload,
		watcher:      fw,
		debounceTime: 2 * time.Second,
		logger:       logger,
		stopChan:     make(chan struct{}),
		reload:       make(chan struct{}, 1),
	}, nil
}

// Start begins monitoring. The directory is watched rather than the file so that
// editors replacing the file atomically are still observed.
func (w *Watcher) Start(ctx context.Context) error {
	configDir := filepath.Dir(w.configPath)
	if err := w.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}
	w.logger.Info("Starting configuration watcher", "config_path", w.configPath)

	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Error closing file watcher", "error", err)
		}
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(w.configPath)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				w.logger.Debug("Config file change detected", "file", event.Name, "op", event.Op.String())
				w.trigger()
			case event.Has(fsnotify.Remove):
				w.logger.Warn("Config file removed", "file", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	var timer *time.Timer
	stopTimer := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return
		case <-w.stopChan:
			stopTimer()
			return
		case <-w.reload:
			w.mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceTime, w.performReload)
			w.mu.Unlock()
		}
	}
}

func (w *Watcher) trigger() {
	select {
	case w.reload <- struct{}{}:
	default:
	}
}

func (w *Watcher) performReload() {
	select {
	case <-w.stopChan:
		return
	default:
	}
	w.logger.Info("Reloading configuration", "config_path", w.configPath)
	cfg, err := Load(w.configPath)
	if err != nil {
		w.logger.Error("Failed to reload configuration; keeping previous settings", "error", err)
		return
	}
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

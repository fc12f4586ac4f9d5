package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	slogmulti "github.com/samber/slog-multi"

	"github.com/6686-repos/dsmodinstaller/internal/config"
)

// Options selects the sinks and their formatting.
type Options struct {
	Level   config.LogLevel
	Format  config.LogFormat
	File    string // empty disables the file sink
	Journal bool
	Stderr  io.Writer // defaults to os.Stderr
}

// Sinks owns the logger and the resources behind it.
type Sinks struct {
	Logger *slog.Logger
	level  *slog.LevelVar
	file   *os.File
}

// New builds the fan-out logger. A sink that cannot be opened is reported through the
// remaining sinks and skipped; New only fails when no sink is usable.
func New(opts Options) (*Sinks, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	s := &Sinks{level: new(slog.LevelVar)}
	s.level.Set(ToSlogLevel(opts.Level))

	handlerOpts := &slog.HandlerOptions{Level: s.level}
	terminal := newHandler(stderr, opts.Format, handlerOpts)
	handlers := []slog.Handler{terminal}

	if opts.File != "" {
		f, err := openLogFile(opts.File)
		if err != nil {
			warn(terminal, "log file unavailable", err)
		} else {
			s.file = f
			// The file always uses the text format so it stays readable for users
			// attaching it to bug reports.
			handlers = append(handlers, slog.NewTextHandler(f, handlerOpts))
		}
	}

	if opts.Journal {
		jh, err := journalHandler(s.level)
		if err != nil {
			warn(terminal, "systemd journal unavailable", err)
		} else {
			handlers = append(handlers, jh)
		}
	}

	s.Logger = slog.New(slogmulti.Fanout(handlers...))
	return s, nil
}

// SetLevel changes the level of every sink.
func (s *Sinks) SetLevel(level config.LogLevel) {
	s.level.Set(ToSlogLevel(level))
}

// Close releases the log file.
func (s *Sinks) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// ToSlogLevel maps configuration levels to slog levels.
func ToSlogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(w io.Writer, format config.LogFormat, opts *slog.HandlerOptions) slog.Handler {
	if format == config.LogFormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

func warn(h slog.Handler, msg string, err error) {
	record := slog.NewRecord(time.Now(), slog.LevelWarn, msg, 0)
	record.AddAttrs(slog.String("error", err.Error()))
	_ = h.Handle(context.Background(), record)
}

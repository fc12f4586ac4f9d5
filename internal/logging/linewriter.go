package logging

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// maxLineBytes bounds a single pending line; longer runs without a newline are
// emitted in pieces.
const maxLineBytes = 64 * 1024

// LineWriter is an io.Writer that logs every complete line it receives as one record.
type LineWriter struct {
	logger *slog.Logger
	level  slog.Level
	msg    string
	attrs  []slog.Attr

	mu  sync.Mutex
	buf []byte
}

// NewLineWriter returns a writer logging each line under msg with the given attrs.
// Close flushes a trailing partial line.
func NewLineWriter(logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) *LineWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LineWriter{logger: logger, level: level, msg: msg, attrs: attrs}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	for len(w.buf) >= maxLineBytes {
		w.emit(w.buf[:maxLineBytes])
		w.buf = w.buf[maxLineBytes:]
	}
	return len(p), nil
}

// Close logs any buffered partial line.
func (w *LineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *LineWriter) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}
	attrs := make([]slog.Attr, 0, len(w.attrs)+1)
	attrs = append(attrs, w.attrs...)
	attrs = append(attrs, slog.String("line", string(line)))
	w.logger.LogAttrs(context.Background(), w.level, w.msg, attrs...)
}

package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		return exitCodeFromCategory(classified.Category())
	}
	return 1
}

func exitCodeFromCategory(category ErrorCategory) int {
	switch category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7
	case CategorySync:
		return 8 // External system error
	case CategoryInstall:
		return 11
	case CategorySpawn, CategoryRuntime:
		return 12
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	msg := classified.Message()
	if a.verbose && classified.Cause() != nil {
		msg = fmt.Sprintf("%s: %v", msg, classified.Cause())
	}
	if classified.Hint() != "" {
		msg += "\n" + classified.Hint()
	}
	return msg
}

// LogError writes the error to the structured log at a level derived from its severity.
// The hint, when present, is logged as its own record so it stands out in log files.
func (a *CLIErrorAdapter) LogError(err error) {
	if err == nil {
		return
	}
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	level := slogLevelFromSeverity(classified.Severity())
	attrs := []slog.Attr{slog.String("category", string(classified.Category()))}
	if classified.Cause() != nil {
		attrs = append(attrs, slog.String("error", classified.Cause().Error()))
	}
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if classified.CanRetry() {
		attrs = append(attrs, slog.Bool("retryable", true))
	}
	a.logger.LogAttrs(context.Background(), level, classified.Message(), attrs...)
	if classified.Hint() != "" {
		a.logger.LogAttrs(context.Background(), level, classified.Hint(), slog.String("category", string(classified.Category())))
	}
}

// HandleError logs the error, prints it to stderr, and exits with the mapped code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.LogError(err)
	fmt.Fprintf(a.stderr, "%s\n", a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	if severity == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			Fatal().
			WithContext("file", "config.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}
		if file := err.Context()["file"]; file != "config.yaml" {
			t.Errorf("expected context file=config.yaml, got %v", file)
		}
		if err.Error() != "[config:fatal] invalid configuration" {
			t.Errorf("unexpected error string %q", err.Error())
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := NewError(CategoryInstall, "npm install failed").Manual().Build()
		err := fmt.Errorf("sequence: %w", inner)

		classified, ok := AsClassified(err)
		if !ok {
			t.Fatal("expected wrapped error to be classified")
		}
		if classified != inner {
			t.Error("expected the wrapped instance back")
		}
		if _, ok := AsClassified(errors.New("plain")); ok {
			t.Error("expected plain errors to be unclassified")
		}
	})

	t.Run("Is compares category and message", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", NewError(CategorySync, "pull failed").Build())
		if !errors.Is(err, NewError(CategorySync, "pull failed").Build()) {
			t.Error("expected match on category and message")
		}
		if errors.Is(err, NewError(CategoryInstall, "pull failed").Build()) {
			t.Error("expected no match across categories")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := WrapError(originalErr, CategorySync, "git operation failed").
			Warning().
			Manual().
			WithHint("check your connection").
			WithContext("url", "https://example.com/repo").
			WithContext("attempt", 1).
			Build()

		if err.Category() != CategorySync {
			t.Errorf("expected category %s, got %s", CategorySync, err.Category())
		}
		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if !err.CanRetry() {
			t.Error("expected manual retry to be allowed")
		}
		if err.Hint() != "check your connection" {
			t.Errorf("unexpected hint %q", err.Hint())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
		if n := err.Context()["attempt"]; n != 1 {
			t.Errorf("expected attempt=1, got %v", n)
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			canRetry bool
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, false},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, false},
			{"UpdateError", UpdateError("test"), CategoryUpdate, SeverityWarning, false},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, true},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
				if err.CanRetry() != tt.canRetry {
					t.Errorf("expected CanRetry=%v", tt.canRetry)
				}
			})
		}
	})
}

func TestErrorContextSetOnNil(t *testing.T) {
	var ctx ErrorContext
	ctx = ctx.Set("key", "value")
	if ctx["key"] != "value" {
		t.Errorf("expected key=value, got %v", ctx["key"])
	}
}

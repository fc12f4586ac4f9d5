// Package errors provides the classified error primitives used across dsmodinstaller.
//
// Domain packages return their own typed errors (git.SyncError, install.InstallError,
// install.SpawnError). The orchestrator and the CLI translate those into a
// ClassifiedError so that logging, remediation hints and exit codes are decided in
// one place.
//
// Key features:
//   - ErrorCategory: broad classification (sync, install, spawn, update, config, ...)
//   - ErrorSeverity: impact level (fatal, error, warning)
//   - RetryStrategy: whether a manual retry can help
//   - ClassifiedError: structured error with category, severity, hint and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: log formatting and exit codes for the command line
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategorySync, "git operation failed").
//		WithHint("Please check your internet connection and try again.").
//		WithContext("url", repoURL).
//		Build()
package errors

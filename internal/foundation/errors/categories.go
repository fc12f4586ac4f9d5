package errors

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Sequence step failures.
	CategorySync    ErrorCategory = "sync"
	CategoryInstall ErrorCategory = "install"
	CategorySpawn   ErrorCategory = "spawn"

	// CategoryUpdate covers self-update failures; these are never fatal.
	CategoryUpdate ErrorCategory = "update"

	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// RetryStrategy indicates whether repeating the operation can succeed.
// Nothing in dsmodinstaller retries automatically; the strategy only shapes the
// message shown to the user.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"  // Permanent failure
	RetryManual     RetryStrategy = "manual" // Selecting Restart may succeed
	RetryUserAction RetryStrategy = "user"   // Requires the user to fix something first
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySequenceID = "sequence_id"
	KeyTrigger    = "trigger"
	KeyStep       = "step"
	KeyState      = "state"
	KeyDurationMS = "duration_ms"
	KeyPID        = "pid"
	KeyExitCode   = "exit_code"
	KeyStream     = "stream"
	KeyCommand    = "command"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyBranch     = "branch"
	KeyCommit     = "commit"
	KeyVersion    = "version"
	KeyCategory   = "category"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func SequenceID(id string) slog.Attr   { return slog.String(KeySequenceID, id) }
func Trigger(t string) slog.Attr       { return slog.String(KeyTrigger, t) }
func Step(name string) slog.Attr       { return slog.String(KeyStep, name) }
func State(s string) slog.Attr         { return slog.String(KeyState, s) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func PID(pid int) slog.Attr            { return slog.Int(KeyPID, pid) }
func ExitCode(code int) slog.Attr      { return slog.Int(KeyExitCode, code) }
func Stream(name string) slog.Attr     { return slog.String(KeyStream, name) }
func Command(cmd string) slog.Attr     { return slog.String(KeyCommand, cmd) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Branch(b string) slog.Attr        { return slog.String(KeyBranch, b) }
func Commit(c string) slog.Attr        { return slog.String(KeyCommit, c) }
func Version(v string) slog.Attr       { return slog.String(KeyVersion, v) }
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

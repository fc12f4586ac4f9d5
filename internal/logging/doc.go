// Package logging builds the process-wide slog logger.
//
// Records fan out (via slog-multi) to stderr, to an append-only log file inside the
// application data directory, and optionally to the systemd journal. LineWriter turns
// the byte streams of child processes into one log record per line.
package logging

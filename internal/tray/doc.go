// Package tray shows the tray icon with its static menu and forwards menu clicks to a
// Handler. The systray event loop must run on the main goroutine.
package tray

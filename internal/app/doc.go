// Package app is the orchestrator. It runs the sync, install and launch sequence,
// tracks its state, and implements the Restart and Exit commands issued from the tray.
//
// States move Idle -> Syncing -> Installing -> Launching -> Running. A failing step
// moves to Failed. A failure of the initial sequence quits the application with an
// exit code derived from the error category; a failed Restart is only logged.
package app

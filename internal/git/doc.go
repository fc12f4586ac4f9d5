// Package git keeps the local working copy in sync with its remote using go-git.
//
// Sync clones the repository when the working copy directory is absent and pulls
// otherwise. Failures are returned as *SyncError with a coarse Kind so callers can
// pick a remediation hint without parsing messages. Nothing is retried here.
package git

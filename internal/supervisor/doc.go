// Package supervisor owns the single long-running child process launched from the
// working copy. Starting a new child terminates the previous one first; stopping sends
// a termination signal without waiting, with a background escalation to a forced kill.
package supervisor

// Package install runs the dependency install command inside the working copy and
// reports failures as typed errors carrying the exit code and the captured output.
//
// The command helpers in this package are shared with the supervisor so that the
// install step and the launched entry point resolve executables the same way.
package install

//go:build windows

package supervisor

func ignoreTermination() {}

//go:build windows

// Package stderr is a no-op on Windows; the native libraries there do
// not spray fd 2 the way ALSA and FFmpeg do on Linux.
package stderr

import "os"

var Messages = make(chan string, 100)

// Start is a no-op on Windows.
func Start() error {
	return nil
}

// WriteOriginal writes to stderr.
func WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on Windows.
func Stop() {}

// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

const (
	// Playback operations
	OpOpen  Op = "open"
	OpSeek  Op = "seek"
	OpStart Op = "start playback"

	// Resume store operations
	OpResumeLoad Op = "load resume position"
	OpResumeSave Op = "save resume position"

	// Setup operations
	OpConfigLoad   Op = "load configuration"
	OpScanPlaylist Op = "scan playlist entries"
	OpInitialize   Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

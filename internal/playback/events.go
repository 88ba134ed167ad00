package playback

import (
	"time"

	"github.com/saehun/mp/internal/playlist"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when playback starts on a different entry.
//
// Emitted by PlayEntry and by the auto-advance path once the post-end
// delay elapses. Pause and seek do not emit it.
type TrackChange struct {
	Previous *playlist.Entry
	Current  *playlist.Entry
	Index    int
}

// PositionChange is emitted when a seek occurs. Regular playback progress
// is polled, not evented.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when an entry fails to open or play. The service
// skips the entry and keeps going.
type ErrorEvent struct {
	Operation string
	Path      string
	Err       error
}

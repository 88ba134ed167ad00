// Package player implements the playback engines for the three media kinds:
// video (threaded decode pipeline), audio (beep streamer) and images
// (still or animated). All three satisfy the Player interface consumed by
// the presentation layer once per tick.
package player

import (
	"image"
	"time"

	"github.com/saehun/mp/internal/audioout"
	"github.com/saehun/mp/internal/media"
)

// Player is the common capability set of a playback session.
//
// The presentation loop drives a player by calling Update once per tick and
// pulling Frame/SubtitleText/Position afterwards. Control methods may be
// called from the presentation goroutine at any time; the video player
// honors them at decode-loop boundaries rather than synchronously.
type Player interface {
	// Play starts playback. No-op when already playing.
	Play()

	// Stop halts playback and releases all session resources. The video
	// player joins its decode goroutine before releasing anything; after
	// Stop returns the session is fully destroyed and cannot restart.
	Stop()

	// Update performs the per-tick work (frame pickup, animation stepping).
	// Returns false once playback has ended.
	Update() bool

	TogglePause()

	// Seek requests an absolute position. Negative targets clamp to zero;
	// targets past the end are clamped by the container.
	Seek(pos time.Duration)

	// SetVolume sets output gain in [0, 1].
	SetVolume(level float64)

	Position() time.Duration
	Length() time.Duration
	Volume() float64

	IsPlaying() bool
	IsPaused() bool
	IsEnded() bool

	// Frame returns the current video/image frame, or nil for audio-only
	// sessions.
	Frame() *image.RGBA

	// SubtitleText returns the subtitle text active at the current
	// position, or "" when none.
	SubtitleText() string
}

// DecodeSession is the demux/decode collaborator the video player's decode
// loop runs against. media.Session is the FFmpeg-backed implementation;
// tests substitute a scripted fake.
type DecodeSession interface {
	Duration() time.Duration
	Size() (w, h int)
	HasAudio() bool
	AudioFormat() (sampleRate, channels int)
	HasSubtitleStream() bool

	ReadPacket() (media.Packet, error)
	DecodeVideo(p media.Packet, emit func(media.VideoFrame) bool) error
	DecodeAudio(p media.Packet, emit func(media.AudioBlock)) error
	DecodeSubtitle(p media.Packet) ([]media.SubtitleEvent, error)

	Seek(target time.Duration) error
	Close() error
}

var _ DecodeSession = (*media.Session)(nil)

// AudioSink is the push-style audio output consumed by the decode loop.
type AudioSink interface {
	PushInterleaved(samples []float32, channels int)
	PushPlanar(planes [][]float32)
	Clear()
	SetGain(level float64)
	Close()
}

var _ AudioSink = (*audioout.Sink)(nil)

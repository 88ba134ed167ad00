// Package media wraps the FFmpeg demux/decode libraries (via the purego
// bindings in github.com/obinnaokechukwu/ffgo) behind a small session API
// consumed by the video player's decode loop.
//
// A Session owns one format context, one decoder context per selected stream
// (video required, audio and subtitle optional) and a reusable RGBA
// conversion buffer. Sessions are not safe for concurrent use; the decode
// goroutine is the only caller once playback starts.
package media

import (
	"errors"
	"time"
)

// PacketKind identifies which selected stream a demuxed packet belongs to.
type PacketKind int

const (
	// KindOther is a packet from a stream we did not select.
	KindOther PacketKind = iota
	KindVideo
	KindAudio
	KindSubtitle
)

// Packet is one demuxed compressed packet. Unref must be called after the
// packet has been dispatched; the underlying buffer is reused by the next
// ReadPacket.
type Packet interface {
	Kind() PacketKind
	Unref()
}

// VideoFrame is one decoded, display-ready frame. Pix aliases the session's
// reusable conversion buffer and is only valid until the next decode call,
// so consumers must copy it out (the frame handoff buffer does).
type VideoFrame struct {
	PTS    time.Duration
	Pix    []byte // RGBA, Stride bytes per row
	Stride int
	Width  int
	Height int
}

// AudioBlock is one decoded chunk of audio samples converted to float32.
// Planes holds one slice per channel for planar formats, or a single
// interleaved slice otherwise.
type AudioBlock struct {
	Planar   bool
	Planes   [][]float32
	Channels int
}

// SubtitleEvent is one decoded embedded-subtitle cue with display times in
// stream time. Text is raw (ASS dialogue line or plain text); the subtitle
// track cleans it on insert.
type SubtitleEvent struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

var (
	// ErrNoVideoStream means the container opened but has no video stream;
	// the caller should fall back to an audio-only player.
	ErrNoVideoStream = errors.New("media: no video stream")

	// ErrNoAudioStream means the container opened but has no audio stream.
	ErrNoAudioStream = errors.New("media: no audio stream")

	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("media: session closed")
)

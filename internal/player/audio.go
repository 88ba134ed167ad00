package player

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/saehun/mp/internal/audioout"
	"github.com/saehun/mp/internal/subtitle"
)

// Audio plays an audio file through the beep speaker. Unlike the video
// player there is no decode goroutine: beep pulls samples from the decoder
// on the speaker's own goroutine and control methods poke the Ctrl and
// Volume wrappers under the speaker lock.
type Audio struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	track    *subtitle.Track

	length  time.Duration
	level   float64
	playing bool
	paused  bool
	ended   atomic.Bool
}

// NewAudio opens path and prepares a decoder for it. Sidecar subtitle
// files (lyrics) next to the media are picked up; audio containers carry
// no subtitle streams.
func NewAudio(path string) (*Audio, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		if err := skipID3v2(f); err != nil {
			f.Close()
			return nil, err
		}
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		// aac, m4a, ape, opus and anything else the pure-Go decoders
		// do not cover go through the native decode libraries, which
		// open the path themselves.
		f.Close()
		f = nil
		streamer, format, err = newFFStream(path)
	}
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, err
	}

	track, _ := subtitle.LoadFile(path)
	if track == nil {
		track = &subtitle.Track{}
	}

	return &Audio{
		file:     f,
		streamer: streamer,
		format:   format,
		track:    track,
		length:   format.SampleRate.D(streamer.Len()),
		level:    1,
	}, nil
}

func (a *Audio) Play() {
	if a.playing || a.streamer == nil {
		return
	}

	deviceRate, err := audioout.Ensure(int(a.format.SampleRate))
	if err != nil {
		return
	}

	var play beep.Streamer = a.streamer
	if a.format.SampleRate != deviceRate {
		play = beep.Resample(4, a.format.SampleRate, deviceRate, a.streamer)
	}
	a.ctrl = &beep.Ctrl{Streamer: play}
	a.vol = &effects.Volume{Streamer: a.ctrl, Base: 2, Volume: audioout.LevelToVolume(a.level)}

	a.playing = true
	speaker.Play(beep.Seq(a.vol, beep.Callback(func() {
		a.ended.Store(true)
	})))
}

func (a *Audio) Stop() {
	if a.streamer == nil {
		return
	}
	if a.playing {
		speaker.Clear()
	}
	a.streamer.Close()
	a.streamer = nil
	if a.file != nil {
		a.file.Close()
		a.file = nil
	}
	a.ctrl = nil
	a.vol = nil
	a.playing = false
}

func (a *Audio) Update() bool { return true }

func (a *Audio) TogglePause() {
	if a.ctrl == nil {
		return
	}
	speaker.Lock()
	a.ctrl.Paused = !a.ctrl.Paused
	a.paused = a.ctrl.Paused
	speaker.Unlock()
}

// Seek repositions the decoder. Targets past the end clamp to the last
// sample; seeking after the stream finished requeues it on the speaker,
// since the finished sequence was already dropped from the mixer.
func (a *Audio) Seek(pos time.Duration) {
	if a.streamer == nil {
		return
	}
	n := a.format.SampleRate.N(pos)
	n = max(n, 0)
	if limit := a.streamer.Len() - 1; n > limit {
		n = max(limit, 0)
	}
	speaker.Lock()
	_ = a.streamer.Seek(n)
	speaker.Unlock()
	if a.ended.Swap(false) && a.playing {
		a.playing = false
		a.Play()
	}
}

func (a *Audio) SetVolume(level float64) {
	a.level = min(1, max(0, level))
	if a.vol == nil {
		return
	}
	speaker.Lock()
	if a.level <= 0 {
		a.vol.Silent = true
	} else {
		a.vol.Silent = false
		a.vol.Volume = audioout.LevelToVolume(a.level)
	}
	speaker.Unlock()
}

func (a *Audio) Position() time.Duration {
	if a.streamer == nil {
		return 0
	}
	return a.format.SampleRate.D(a.streamer.Position())
}

func (a *Audio) Length() time.Duration { return a.length }
func (a *Audio) Volume() float64       { return a.level }

func (a *Audio) IsPlaying() bool { return a.playing }
func (a *Audio) IsPaused() bool  { return a.paused }
func (a *Audio) IsEnded() bool   { return a.ended.Load() }

func (a *Audio) Frame() *image.RGBA { return nil }

func (a *Audio) SubtitleText() string {
	return a.track.ActiveAt(a.Position())
}

// skipID3v2 skips an ID3v2 tag prepended to the file, which the FLAC
// decoder does not tolerate.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := r.Read(header)
	if err != nil || n < 10 || string(header[:3]) != "ID3" {
		_, serr := r.Seek(0, io.SeekStart)
		if err != nil {
			return err
		}
		return serr
	}
	// Syncsafe 28-bit size in bytes 6-9.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}

var _ Player = (*Audio)(nil)

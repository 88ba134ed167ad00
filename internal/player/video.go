package player

import (
	"image"
	"time"

	"github.com/saehun/mp/internal/audioout"
	"github.com/saehun/mp/internal/log"
	"github.com/saehun/mp/internal/media"
	"github.com/saehun/mp/internal/subtitle"
)

const (
	// pauseDelay is how long the decode loop sleeps per iteration while
	// paused. The clock anchor is extended by the same amount.
	pauseDelay = 10 * time.Millisecond

	// endedIdle is the poll interval once the container is exhausted. The
	// loop keeps running so a seek can restart playback.
	endedIdle = 100 * time.Millisecond
)

// Video plays a video file on a dedicated decode goroutine: demux, decode,
// convert, pace against the wall clock, publish into the frame buffer.
// Audio is decoded on the same goroutine and pushed to the sink unpaced;
// the sink's own buffer provides the timing slack.
type Video struct {
	sess  DecodeSession
	sink  AudioSink
	track *subtitle.Track

	// externalSubs is true when track came from a sidecar file; such
	// tracks survive seeks, embedded ones are cleared and repopulated.
	externalSubs bool

	flags *flags
	clock *clock
	fb    frameBuffer

	frame *image.RGBA
	done  chan struct{}
}

// NewVideo opens path for playback. A sidecar subtitle file next to the
// media takes precedence over any embedded subtitle stream.
func NewVideo(path string) (*Video, error) {
	track, external := subtitle.LoadFile(path)

	sess, err := media.Open(path, !external)
	if err != nil {
		return nil, err
	}

	var sink AudioSink
	if sess.HasAudio() {
		rate, channels := sess.AudioFormat()
		sink, err = audioout.NewSink(rate, channels)
		if err != nil {
			sess.Close()
			return nil, err
		}
	}

	return newVideo(sess, sink, track, external), nil
}

func newVideo(sess DecodeSession, sink AudioSink, track *subtitle.Track, external bool) *Video {
	if track == nil {
		track = &subtitle.Track{}
	}
	return &Video{
		sess:         sess,
		sink:         sink,
		track:        track,
		externalSubs: external,
		flags:        newFlags(),
		clock:        newClock(),
	}
}

func (v *Video) Play() {
	if v.sess == nil || v.done != nil || !v.flags.running.CompareAndSwap(false, true) {
		return
	}
	v.done = make(chan struct{})
	v.clock.Start()
	go v.decodeLoop()
}

// Stop halts the decode loop, joins it, then releases the session and the
// audio sink. Safe to call more than once; the player cannot restart.
func (v *Video) Stop() {
	v.flags.running.Store(false)
	if v.done != nil {
		<-v.done
		v.done = nil
	}
	if v.sess != nil {
		v.sess.Close()
		v.sess = nil
	}
	if v.sink != nil {
		v.sink.Close()
		v.sink = nil
	}
}

// Update picks up the latest published frame. Always returns true: a video
// session stays alive at end of stream so the user can seek back.
func (v *Video) Update() bool {
	if img := v.fb.Take(v.frame); img != nil {
		v.frame = img
	}
	return true
}

func (v *Video) TogglePause() {
	v.flags.paused.Store(!v.flags.paused.Load())
}

func (v *Video) Seek(pos time.Duration) {
	v.flags.RequestSeek(pos)
}

func (v *Video) SetVolume(level float64) {
	v.flags.SetVolume(level)
	if v.sink != nil {
		v.sink.SetGain(v.flags.Volume())
	}
}

func (v *Video) Position() time.Duration { return v.flags.Position() }

func (v *Video) Length() time.Duration {
	if v.sess == nil {
		return 0
	}
	return v.sess.Duration()
}

func (v *Video) Volume() float64 { return v.flags.Volume() }

func (v *Video) IsPlaying() bool { return v.flags.running.Load() }
func (v *Video) IsPaused() bool  { return v.flags.paused.Load() }
func (v *Video) IsEnded() bool   { return v.flags.ended.Load() }

func (v *Video) Frame() *image.RGBA { return v.frame }

func (v *Video) SubtitleText() string {
	return v.track.ActiveAt(v.flags.Position())
}

// decodeLoop is the pipeline body. Each iteration handles at most one of:
// a pending seek, the paused state, the ended state, or one demuxed packet.
func (v *Video) decodeLoop() {
	defer close(v.done)

	for v.flags.running.Load() {
		if target, ok := v.flags.TakeSeek(); ok {
			v.applySeek(target)
			continue
		}

		if v.flags.paused.Load() {
			v.clock.sleep(pauseDelay)
			v.clock.Extend(pauseDelay)
			continue
		}

		if v.flags.ended.Load() {
			v.clock.sleep(endedIdle)
			continue
		}

		pkt, err := v.sess.ReadPacket()
		if err != nil {
			v.flags.ended.Store(true)
			continue
		}
		v.handlePacket(pkt)
		pkt.Unref()
	}
}

func (v *Video) handlePacket(pkt media.Packet) {
	switch pkt.Kind() {
	case media.KindVideo:
		v.sess.DecodeVideo(pkt, v.emitFrame)
	case media.KindAudio:
		if v.sink != nil {
			v.sess.DecodeAudio(pkt, v.emitAudio)
		}
	case media.KindSubtitle:
		events, err := v.sess.DecodeSubtitle(pkt)
		if err != nil {
			log.Debugf("subtitle packet dropped: %v", err)
			return
		}
		for _, ev := range events {
			v.track.AddLiveEntry(ev.Start, ev.End, ev.Text)
		}
	}
}

// emitFrame paces the frame against the wall clock, then publishes it.
// Returns false to abandon the remaining frames of the packet when the
// wait was cancelled by a stop or a newly filed seek.
func (v *Video) emitFrame(f media.VideoFrame) bool {
	ok := v.clock.WaitUntil(f.PTS, func() bool {
		return !v.flags.running.Load() || v.flags.SeekPending()
	})
	if !ok {
		return false
	}
	v.fb.Publish(f)
	v.flags.SetPosition(f.PTS)
	return true
}

func (v *Video) emitAudio(b media.AudioBlock) {
	if b.Planar {
		v.sink.PushPlanar(b.Planes)
	} else if len(b.Planes) > 0 {
		v.sink.PushInterleaved(b.Planes[0], b.Channels)
	}
}

// applySeek performs one consumed seek request: reposition the demuxer and
// flush decoders, drop buffered audio, clear embedded subtitles, re-anchor
// the clock at the target.
func (v *Video) applySeek(target time.Duration) {
	if err := v.sess.Seek(target); err != nil {
		log.Warnf("seek to %s failed: %v", target, err)
		return
	}
	if v.sink != nil {
		v.sink.Clear()
	}
	if !v.externalSubs {
		v.track.Clear()
	}
	v.clock.Rebase(target)
	v.flags.SetPosition(target)
	v.flags.ended.Store(false)
}

var _ Player = (*Video)(nil)

package player

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/saehun/mp/internal/media"
	"github.com/saehun/mp/internal/subtitle"
)

var errNoMorePackets = errors.New("no more packets")

// scriptStep is one demuxed packet and the payload its decode call yields.
// before runs at the start of the ReadPacket call that returns it, which
// lets a test file control requests between loop iterations.
type scriptStep struct {
	kind   media.PacketKind
	frames []media.VideoFrame
	audio  []media.AudioBlock
	subs   []media.SubtitleEvent
	before func()
}

type fakePacket struct {
	s    *fakeSession
	step *scriptStep
}

func (p *fakePacket) Kind() media.PacketKind { return p.step.kind }
func (p *fakePacket) Unref()                 { p.s.unrefs++ }

// fakeSession replays a script of packets and records everything the
// decode loop does to it.
type fakeSession struct {
	steps []scriptStep
	next  int

	trace  []string
	seeks  []time.Duration
	unrefs int
	closed bool

	// onExhausted runs when the script runs out, before ReadPacket
	// returns its error. Tests use it to stop the loop.
	onExhausted func()
}

func (s *fakeSession) Duration() time.Duration { return time.Minute }
func (s *fakeSession) Size() (int, int)        { return 64, 48 }
func (s *fakeSession) HasAudio() bool          { return true }
func (s *fakeSession) AudioFormat() (int, int) { return 44100, 2 }
func (s *fakeSession) HasSubtitleStream() bool { return true }

func (s *fakeSession) ReadPacket() (media.Packet, error) {
	if s.next >= len(s.steps) {
		if s.onExhausted != nil {
			s.onExhausted()
		}
		return nil, errNoMorePackets
	}
	step := &s.steps[s.next]
	s.next++
	if step.before != nil {
		step.before()
	}
	s.trace = append(s.trace, "read")
	return &fakePacket{s: s, step: step}, nil
}

func (s *fakeSession) DecodeVideo(p media.Packet, emit func(media.VideoFrame) bool) error {
	step := p.(*fakePacket).step
	for _, f := range step.frames {
		if !emit(f) {
			s.trace = append(s.trace, "abandon")
			return nil
		}
		s.trace = append(s.trace, fmt.Sprintf("frame %v", f.PTS))
	}
	return nil
}

func (s *fakeSession) DecodeAudio(p media.Packet, emit func(media.AudioBlock)) error {
	for _, b := range p.(*fakePacket).step.audio {
		emit(b)
	}
	return nil
}

func (s *fakeSession) DecodeSubtitle(p media.Packet) ([]media.SubtitleEvent, error) {
	return p.(*fakePacket).step.subs, nil
}

func (s *fakeSession) Seek(target time.Duration) error {
	s.trace = append(s.trace, fmt.Sprintf("seek %v", target))
	s.seeks = append(s.seeks, target)
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeSink struct {
	interleaved [][]float32
	planar      [][][]float32
	clears      int
	gains       []float64
	closed      bool
}

func (s *fakeSink) PushInterleaved(samples []float32, channels int) {
	s.interleaved = append(s.interleaved, samples)
}
func (s *fakeSink) PushPlanar(planes [][]float32) { s.planar = append(s.planar, planes) }
func (s *fakeSink) Clear()                        { s.clears++ }
func (s *fakeSink) SetGain(level float64)         { s.gains = append(s.gains, level) }
func (s *fakeSink) Close()                        { s.closed = true }

// testVideo wires a Video to a fake session, sink and clock. The decode
// loop is run synchronously via runLoop so tests stay deterministic; the
// session's onExhausted hook stops the loop when the script ends.
func testVideo(sess *fakeSession, external bool) (*Video, *fakeSink, *fakeTime) {
	sink := &fakeSink{}
	v := newVideo(sess, sink, &subtitle.Track{}, external)
	ft := newFakeTime()
	ft.install(v.clock)
	if sess.onExhausted == nil {
		sess.onExhausted = func() { v.flags.running.Store(false) }
	}
	return v, sink, ft
}

func runLoop(v *Video) {
	v.flags.running.Store(true)
	v.done = make(chan struct{})
	v.clock.Start()
	v.decodeLoop()
	v.done = nil
}

func frameAt(pts time.Duration) media.VideoFrame {
	f := solidFrame(2, 2, 1, 1, 1)
	f.PTS = pts
	return f
}

func framePacket(pts ...time.Duration) scriptStep {
	step := scriptStep{kind: media.KindVideo}
	for _, p := range pts {
		step.frames = append(step.frames, frameAt(p))
	}
	return step
}

func TestVideo_PublishesFramesInOrder(t *testing.T) {
	sess := &fakeSession{steps: []scriptStep{
		framePacket(40 * time.Millisecond),
		framePacket(80 * time.Millisecond),
	}}
	v, _, _ := testVideo(sess, false)

	runLoop(v)

	want := []string{"read", "frame 40ms", "read", "frame 80ms"}
	assertTrace(t, sess.trace, want)
	if got := v.Position(); got != 80*time.Millisecond {
		t.Errorf("position = %v, want 80ms", got)
	}
	if !v.Update() {
		t.Error("Update returned false")
	}
	if v.Frame() == nil {
		t.Error("no frame available after playback")
	}
	if sess.unrefs != 2 {
		t.Errorf("unref count = %d, want 2", sess.unrefs)
	}
}

func TestVideo_SeekFlushesSinkAndEmbeddedSubtitles(t *testing.T) {
	var v *Video
	sess := &fakeSession{}
	sess.steps = []scriptStep{
		{kind: media.KindSubtitle, subs: []media.SubtitleEvent{
			{Start: 0, End: 2 * time.Second, Text: "embedded"},
		}},
		framePacket(0),
		{kind: media.KindVideo, before: func() { v.Seek(10 * time.Second) }},
	}
	var sink *fakeSink
	v, sink, _ = testVideo(sess, false)

	runLoop(v)

	// The seek filed during the third ReadPacket is consumed at the next
	// loop boundary, before any further demuxing.
	assertTrace(t, sess.trace, []string{"read", "read", "frame 0s", "read", "seek 10s"})
	if sink.clears != 1 {
		t.Errorf("sink cleared %d times, want 1", sink.clears)
	}
	if v.track.Len() != 0 {
		t.Errorf("embedded subtitle entries = %d after seek, want 0", v.track.Len())
	}
	if got := v.Position(); got != 10*time.Second {
		t.Errorf("position = %v, want 10s", got)
	}
}

func TestVideo_ExternalSubtitlesSurviveSeek(t *testing.T) {
	var v *Video
	sess := &fakeSession{steps: []scriptStep{
		{kind: media.KindVideo, before: func() { v.Seek(5 * time.Second) }},
	}}
	v, _, _ = testVideo(sess, true)
	v.track.AddLiveEntry(0, 2*time.Second, "sidecar")

	runLoop(v)

	if v.track.Len() != 1 {
		t.Errorf("sidecar subtitle entries = %d after seek, want 1", v.track.Len())
	}
	if len(sess.seeks) != 1 || sess.seeks[0] != 5*time.Second {
		t.Errorf("seeks = %v, want [5s]", sess.seeks)
	}
}

func TestVideo_PendingSeekAbandonsPacedWait(t *testing.T) {
	var v *Video
	sess := &fakeSession{steps: []scriptStep{
		framePacket(time.Hour, 2*time.Hour),
	}}
	var ft *fakeTime
	v, _, ft = testVideo(sess, false)

	// File the seek during the paced wait on the first frame.
	base := v.clock.sleep
	v.clock.sleep = func(d time.Duration) {
		v.Seek(30 * time.Second)
		base(d)
	}

	runLoop(v)

	// Neither frame is published: the wait is cancelled and the packet's
	// remaining frames are dropped, then the seek runs.
	assertTrace(t, sess.trace, []string{"read", "abandon", "seek 30s"})
	if ft.now.Sub(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) > 10*time.Millisecond {
		t.Error("loop kept pacing against the pre-seek timeline")
	}
}

func TestVideo_EndOfStreamSetsEndedAndIdles(t *testing.T) {
	sess := &fakeSession{steps: []scriptStep{framePacket(0)}}
	v, _, _ := testVideo(sess, false)

	idles := 0
	sess.onExhausted = nil
	base := v.clock.sleep
	v.clock.sleep = func(d time.Duration) {
		if d == endedIdle {
			idles++
			if idles == 3 {
				v.flags.running.Store(false)
			}
		}
		base(d)
	}

	runLoop(v)

	if !v.IsEnded() {
		t.Error("IsEnded false after the demuxer was exhausted")
	}
	if idles != 3 {
		t.Errorf("idle sleeps = %d, want 3", idles)
	}
}

func TestVideo_SeekClearsEnded(t *testing.T) {
	var v *Video
	sess := &fakeSession{}
	sess.steps = []scriptStep{framePacket(0)}
	v, _, _ = testVideo(sess, false)

	reads := 0
	endedAfterSeek := true
	sess.onExhausted = func() {
		reads++
		switch reads {
		case 1:
			v.Seek(0)
		default:
			// The stream is being demuxed again, so the seek already ran.
			endedAfterSeek = v.IsEnded()
			v.flags.running.Store(false)
		}
	}

	runLoop(v)

	if endedAfterSeek {
		t.Error("ended flag not cleared by the seek")
	}
	if len(sess.seeks) != 1 {
		t.Errorf("seeks = %v, want exactly one", sess.seeks)
	}
}

func TestVideo_PauseExtendsClockAnchor(t *testing.T) {
	sess := &fakeSession{}
	v, _, ft := testVideo(sess, false)
	v.flags.paused.Store(true)

	pauses := 0
	base := v.clock.sleep
	v.clock.sleep = func(d time.Duration) {
		pauses++
		if pauses == 3 {
			v.flags.running.Store(false)
		}
		base(d)
	}

	start := ft.now
	runLoop(v)

	want := start.Add(3 * pauseDelay)
	if !v.clock.anchor.Equal(want) {
		t.Errorf("anchor = %v, want %v (extended by 3 pause sleeps)", v.clock.anchor, want)
	}
	if sess.next != 0 {
		t.Error("packets were demuxed while paused")
	}
}

func TestVideo_AudioPushedToSink(t *testing.T) {
	sess := &fakeSession{steps: []scriptStep{
		{kind: media.KindAudio, audio: []media.AudioBlock{
			{Planar: false, Planes: [][]float32{{0.1, 0.2}}, Channels: 2},
			{Planar: true, Planes: [][]float32{{0.1}, {0.2}}, Channels: 2},
		}},
	}}
	v, sink, _ := testVideo(sess, false)

	runLoop(v)

	if len(sink.interleaved) != 1 {
		t.Errorf("interleaved pushes = %d, want 1", len(sink.interleaved))
	}
	if len(sink.planar) != 1 {
		t.Errorf("planar pushes = %d, want 1", len(sink.planar))
	}
}

func TestVideo_SubtitlePacketsFeedTrack(t *testing.T) {
	sess := &fakeSession{steps: []scriptStep{
		{kind: media.KindSubtitle, subs: []media.SubtitleEvent{
			{Start: time.Second, End: 3 * time.Second, Text: "hello"},
		}},
	}}
	v, _, _ := testVideo(sess, false)

	runLoop(v)

	v.flags.SetPosition(2 * time.Second)
	if got := v.SubtitleText(); got != "hello" {
		t.Errorf("SubtitleText() = %q, want %q", got, "hello")
	}
}

func TestVideo_StopJoinsAndReleases(t *testing.T) {
	sess := &fakeSession{}
	sink := &fakeSink{}
	v := newVideo(sess, sink, &subtitle.Track{}, false)

	v.Play()
	if !v.IsPlaying() {
		t.Fatal("IsPlaying false after Play")
	}
	v.Stop()

	if !sess.closed {
		t.Error("session not closed by Stop")
	}
	if !sink.closed {
		t.Error("sink not closed by Stop")
	}
	if v.IsPlaying() {
		t.Error("IsPlaying true after Stop")
	}
	v.Stop()
}

func TestVideo_SetVolumeDrivesSinkGain(t *testing.T) {
	sess := &fakeSession{}
	sink := &fakeSink{}
	v := newVideo(sess, sink, &subtitle.Track{}, false)

	v.SetVolume(0.5)
	v.SetVolume(1.7)

	if len(sink.gains) != 2 || sink.gains[0] != 0.5 || sink.gains[1] != 1 {
		t.Errorf("gains = %v, want [0.5 1]", sink.gains)
	}
	if got := v.Volume(); got != 1 {
		t.Errorf("Volume() = %v, want 1", got)
	}
}

func assertTrace(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trace[%d] = %q, want %q (full trace %v)", i, got[i], want[i], got)
		}
	}
}

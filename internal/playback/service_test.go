package playback

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/saehun/mp/internal/player"
	"github.com/saehun/mp/internal/playlist"
)

// fakePlayer records control calls and exposes settable state.
type fakePlayer struct {
	playing bool
	paused  bool
	ended   bool
	stopped bool
	pos     time.Duration
	length  time.Duration
	volume  float64
	seeks   []time.Duration
	updates int
}

func (f *fakePlayer) Play() { f.playing = true }
func (f *fakePlayer) Stop() { f.playing = false; f.stopped = true }
func (f *fakePlayer) Update() bool {
	f.updates++
	return !f.ended
}
func (f *fakePlayer) TogglePause() { f.paused = !f.paused }
func (f *fakePlayer) Seek(pos time.Duration) {
	f.seeks = append(f.seeks, pos)
	f.pos = pos
	f.ended = false
}
func (f *fakePlayer) SetVolume(level float64) { f.volume = level }
func (f *fakePlayer) Position() time.Duration { return f.pos }
func (f *fakePlayer) Length() time.Duration   { return f.length }
func (f *fakePlayer) Volume() float64         { return f.volume }
func (f *fakePlayer) IsPlaying() bool         { return f.playing }
func (f *fakePlayer) IsPaused() bool          { return f.paused }
func (f *fakePlayer) IsEnded() bool           { return f.ended }
func (f *fakePlayer) Frame() *image.RGBA      { return nil }
func (f *fakePlayer) SubtitleText() string    { return "" }

var _ player.Player = (*fakePlayer)(nil)

// harness wires a Service to fake players and a fake clock.
type harness struct {
	svc     *Service
	players map[string]*fakePlayer
	fail    map[string]error
	opened  []string
	now     time.Time
}

func newHarness(delay time.Duration, paths ...string) *harness {
	h := &harness{
		players: make(map[string]*fakePlayer),
		fail:    make(map[string]error),
		now:     time.Unix(5000, 0),
	}

	entries := make([]playlist.Entry, len(paths))
	for i, p := range paths {
		entries[i] = playlist.Entry{Path: p, Kind: playlist.KindVideo}
		h.players[p] = &fakePlayer{length: time.Minute}
	}
	q := playlist.NewQueue()
	q.Replace(entries...)

	h.svc = New(q, Options{
		DelayAfter: delay,
		Open: func(e playlist.Entry) (player.Player, error) {
			if err := h.fail[e.Path]; err != nil {
				return nil, err
			}
			h.opened = append(h.opened, e.Path)
			return h.players[e.Path], nil
		},
	})
	h.svc.now = func() time.Time { return h.now }
	return h
}

func (h *harness) current() *fakePlayer {
	e := h.svc.Current()
	if e == nil {
		return nil
	}
	return h.players[e.Path]
}

func TestService_StartPlaysFirstEntry(t *testing.T) {
	h := newHarness(0, "/a.mkv", "/b.mkv")

	h.svc.Start()

	if len(h.opened) != 1 || h.opened[0] != "/a.mkv" {
		t.Fatalf("opened = %v, want [/a.mkv]", h.opened)
	}
	if !h.players["/a.mkv"].playing {
		t.Error("first entry not playing after Start")
	}
	if got := h.svc.State(); got != StatePlaying {
		t.Errorf("State() = %v, want Playing", got)
	}
}

func TestService_NextStopsOldAndPlaysNew(t *testing.T) {
	h := newHarness(0, "/a.mkv", "/b.mkv")
	h.svc.Start()

	h.svc.Next()

	if !h.players["/a.mkv"].stopped {
		t.Error("previous player not stopped")
	}
	if !h.players["/b.mkv"].playing {
		t.Error("next entry not playing")
	}
	if h.svc.Current().Path != "/b.mkv" {
		t.Errorf("Current() = %q, want /b.mkv", h.svc.Current().Path)
	}
}

func TestService_NextWrapsAround(t *testing.T) {
	h := newHarness(0, "/a.mkv", "/b.mkv")
	h.svc.Start()

	h.svc.Next()
	h.svc.Next()

	if h.svc.Current().Path != "/a.mkv" {
		t.Errorf("Current() = %q after wrapping, want /a.mkv", h.svc.Current().Path)
	}
}

func TestService_ShortAudioRestartsInPlace(t *testing.T) {
	h := newHarness(time.Second, "/track.opus", "/b.mkv")
	h.svc.queue.Replace(
		playlist.Entry{Path: "/track.opus", Kind: playlist.KindAudio},
		playlist.Entry{Path: "/b.mkv", Kind: playlist.KindVideo},
	)
	h.svc.shortThreshold = 10 * time.Second
	p := h.players["/track.opus"]
	p.length = 3 * time.Second
	h.svc.Start()

	p.ended = true
	p.pos = 3 * time.Second
	h.svc.Tick()

	if h.svc.Current().Path != "/track.opus" {
		t.Fatal("short track auto-advanced, want it to restart")
	}
	if len(p.seeks) != 1 || p.seeks[0] != 0 {
		t.Errorf("seeks = %v, want a single seek to 0", p.seeks)
	}
	if got := h.svc.State(); got != StatePlaying {
		t.Errorf("State() = %v after restart, want Playing", got)
	}

	// Restarts keep happening until the user skips.
	p.ended = true
	h.now = h.now.Add(time.Minute)
	h.svc.Tick()
	if len(p.seeks) != 2 {
		t.Errorf("seeks = %v after second end, want two seeks to 0", p.seeks)
	}

	h.svc.Next()
	if h.svc.Current().Path != "/b.mkv" {
		t.Errorf("Current() = %q after manual skip, want /b.mkv", h.svc.Current().Path)
	}
}

func TestService_ShortVideoStillAdvances(t *testing.T) {
	h := newHarness(time.Second, "/clip.mkv", "/b.mkv")
	h.svc.shortThreshold = 10 * time.Second
	h.players["/clip.mkv"].length = 3 * time.Second
	h.svc.Start()

	h.players["/clip.mkv"].ended = true
	h.svc.Tick()
	h.now = h.now.Add(2 * time.Second)
	h.svc.Tick()

	if h.svc.Current().Path != "/b.mkv" {
		t.Errorf("Current() = %q, want the short video to advance to /b.mkv", h.svc.Current().Path)
	}
}

func TestService_AutoAdvanceAfterDelay(t *testing.T) {
	h := newHarness(2*time.Second, "/a.mkv", "/b.mkv")
	h.svc.Start()

	h.players["/a.mkv"].ended = true
	h.svc.Tick()

	if h.svc.Current().Path != "/a.mkv" {
		t.Fatal("advanced before the delay elapsed")
	}
	if got := h.svc.State(); got != StateEnded {
		t.Errorf("State() = %v while lingering, want Ended", got)
	}

	h.now = h.now.Add(time.Second)
	h.svc.Tick()
	if h.svc.Current().Path != "/a.mkv" {
		t.Fatal("advanced after only half the delay")
	}

	h.now = h.now.Add(time.Second + time.Millisecond)
	h.svc.Tick()
	if h.svc.Current().Path != "/b.mkv" {
		t.Errorf("Current() = %q after the delay, want /b.mkv", h.svc.Current().Path)
	}
}

func TestService_SingleEntryRestartsOnEnd(t *testing.T) {
	h := newHarness(0, "/only.mkv")
	h.svc.Start()

	h.players["/only.mkv"].ended = true
	h.svc.Tick()

	if len(h.opened) != 2 {
		t.Fatalf("opened %d times, want 2 (restart of the single entry)", len(h.opened))
	}
	if h.opened[1] != "/only.mkv" {
		t.Errorf("reopened %q, want /only.mkv", h.opened[1])
	}
}

func TestService_OpenFailureSkipsToNext(t *testing.T) {
	h := newHarness(0, "/bad.mkv", "/good.mkv")
	h.fail["/bad.mkv"] = errors.New("no such codec")
	sub := h.svc.Subscribe()

	h.svc.Start()

	if h.svc.Current() == nil || h.svc.Current().Path != "/good.mkv" {
		t.Fatalf("Current() = %v, want /good.mkv", h.svc.Current())
	}
	select {
	case e := <-sub.Error:
		if e.Path != "/bad.mkv" || e.Operation != "open" {
			t.Errorf("error event = %+v, want open failure for /bad.mkv", e)
		}
	default:
		t.Error("no error event for the failed entry")
	}
}

func TestService_AllEntriesFailingStops(t *testing.T) {
	h := newHarness(0, "/x.mkv", "/y.mkv")
	h.fail["/x.mkv"] = errors.New("bad")
	h.fail["/y.mkv"] = errors.New("bad")

	h.svc.Start()

	if got := h.svc.State(); got != StateStopped {
		t.Errorf("State() = %v when every entry fails, want Stopped", got)
	}
	if h.svc.Current() != nil {
		t.Error("Current() non-nil when every entry fails")
	}
}

func TestService_ToggleEmitsStateChange(t *testing.T) {
	h := newHarness(0, "/a.mkv")
	h.svc.Start()
	sub := h.svc.Subscribe()

	h.svc.Toggle()

	if got := h.svc.State(); got != StatePaused {
		t.Errorf("State() = %v, want Paused", got)
	}
	select {
	case e := <-sub.StateChanged:
		if e.Previous != StatePlaying || e.Current != StatePaused {
			t.Errorf("state event = %+v, want Playing->Paused", e)
		}
	default:
		t.Error("no state event on pause")
	}
}

func TestService_SeekEmitsPositionChange(t *testing.T) {
	h := newHarness(0, "/a.mkv")
	h.svc.Start()
	sub := h.svc.Subscribe()

	h.svc.SeekTo(30 * time.Second)

	p := h.current()
	if len(p.seeks) != 1 || p.seeks[0] != 30*time.Second {
		t.Errorf("seeks = %v, want [30s]", p.seeks)
	}
	select {
	case e := <-sub.PositionChanged:
		if e.Position != 30*time.Second {
			t.Errorf("position event = %v, want 30s", e.Position)
		}
	default:
		t.Error("no position event on seek")
	}
}

func TestService_RelativeSeekClampsToZero(t *testing.T) {
	h := newHarness(0, "/a.mkv")
	h.svc.Start()
	h.current().pos = 5 * time.Second

	h.svc.Seek(-20 * time.Second)

	p := h.current()
	if p.seeks[len(p.seeks)-1] != 0 {
		t.Errorf("seek target = %v, want clamped to 0", p.seeks[len(p.seeks)-1])
	}
}

func TestService_VolumeCarriesAcrossEntries(t *testing.T) {
	h := newHarness(0, "/a.mkv", "/b.mkv")
	h.svc.Start()

	h.svc.SetVolume(0.3)
	if h.players["/a.mkv"].volume != 0.3 {
		t.Errorf("current volume = %v, want 0.3", h.players["/a.mkv"].volume)
	}

	h.svc.Next()
	if h.players["/b.mkv"].volume != 0.3 {
		t.Errorf("next entry volume = %v, want the carried 0.3", h.players["/b.mkv"].volume)
	}
}

func TestService_StopReleasesPlayer(t *testing.T) {
	h := newHarness(0, "/a.mkv")
	h.svc.Start()

	h.svc.Stop()

	if !h.players["/a.mkv"].stopped {
		t.Error("player not stopped")
	}
	if h.svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", h.svc.State())
	}
	if h.svc.Player() != nil {
		t.Error("Player() non-nil after Stop")
	}
}

func TestService_CloseEndsSubscriptions(t *testing.T) {
	h := newHarness(0, "/a.mkv")
	h.svc.Start()
	sub := h.svc.Subscribe()

	if err := h.svc.Close(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-sub.Done:
	default:
		t.Error("subscription not closed")
	}
	if err := h.svc.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
}

func TestService_TrackChangeEvents(t *testing.T) {
	h := newHarness(0, "/a.mkv", "/b.mkv")
	sub := h.svc.Subscribe()

	h.svc.Start()
	h.svc.Next()

	first := <-sub.TrackChanged
	if first.Current.Path != "/a.mkv" || first.Previous != nil {
		t.Errorf("first event = %+v, want nil->/a.mkv", first)
	}
	second := <-sub.TrackChanged
	if second.Current.Path != "/b.mkv" || second.Previous.Path != "/a.mkv" {
		t.Errorf("second event = %+v, want /a.mkv->/b.mkv", second)
	}
	if second.Index != 1 {
		t.Errorf("second event index = %d, want 1", second.Index)
	}
}

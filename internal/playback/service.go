// Package playback orchestrates a playlist queue and the per-entry media
// players into one continuous session: open, play, auto-advance, resume.
package playback

import (
	"sync"
	"time"

	"github.com/saehun/mp/internal/log"
	"github.com/saehun/mp/internal/player"
	"github.com/saehun/mp/internal/playlist"
	"github.com/saehun/mp/internal/state"
)

// resumeSaveInterval is how often the current position is pushed to the
// resume store while playing.
const resumeSaveInterval = 5 * time.Second

// OpenFunc opens a player for a playlist entry.
type OpenFunc func(e playlist.Entry) (player.Player, error)

// Options configures a Service.
type Options struct {
	// DelayAfter is how long to linger on a finished entry before
	// auto-advancing to the next one.
	DelayAfter time.Duration

	// ImageDisplay is how long still images stay up.
	ImageDisplay time.Duration

	// ShortThreshold marks audio entries shorter than this as short
	// tracks, which restart from the beginning instead of auto-advancing.
	ShortThreshold time.Duration

	// Volume is the startup volume level.
	Volume float64

	// Resume, when set, persists and restores per-path positions.
	Resume *state.Manager

	// Open overrides how players are created. Nil uses the default
	// per-kind constructors.
	Open OpenFunc
}

// Service owns the playing queue and the current player.
// All methods are called from the presentation goroutine.
type Service struct {
	mu sync.Mutex

	queue   *playlist.Queue
	player  player.Player
	current *playlist.Entry

	open           OpenFunc
	resume         *state.Manager
	delayAfter     time.Duration
	shortThreshold time.Duration
	volume         float64

	endedAt   time.Time // when the current entry was seen ended
	lastSave  time.Time
	failCount int

	now func() time.Time

	subs   []*Subscription
	subsMu sync.RWMutex
	closed bool
}

// New creates a service over the given queue.
func New(queue *playlist.Queue, opts Options) *Service {
	s := &Service{
		queue:          queue,
		resume:         opts.Resume,
		delayAfter:     opts.DelayAfter,
		shortThreshold: opts.ShortThreshold,
		volume:         opts.Volume,
		open:           opts.Open,
		now:            time.Now,
	}
	if s.volume <= 0 {
		s.volume = 1
	}
	if s.open == nil {
		display := opts.ImageDisplay
		s.open = func(e playlist.Entry) (player.Player, error) {
			return openPlayer(e, display)
		}
	}
	return s
}

// openPlayer builds the right player variant for the entry's media kind.
func openPlayer(e playlist.Entry, imageDisplay time.Duration) (player.Player, error) {
	switch e.Kind {
	case playlist.KindAudio:
		return player.NewAudio(e.Path)
	case playlist.KindImage:
		return player.NewImage(e.Path, imageDisplay)
	default:
		return player.NewVideo(e.Path)
	}
}

// Start begins playback at the queue's cursor (or the first entry).
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.queue.Current()
	if entry == nil {
		entry = s.queue.Next()
	}
	s.playEntryLocked(entry)
}

// PlayIndex jumps to the queue entry at index and plays it.
func (s *Service) PlayIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playEntryLocked(s.queue.JumpTo(index))
}

// Next advances to the next entry, wrapping at the end of the queue.
func (s *Service) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveResumeLocked()
	s.playEntryLocked(s.queue.Next())
}

// Previous steps back to the previous entry, wrapping at the start.
func (s *Service) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveResumeLocked()
	s.playEntryLocked(s.queue.Previous())
}

// playEntryLocked replaces the current player with one for entry.
// A nil entry stops playback. Entries that fail to open are skipped until
// one opens or the whole queue has failed.
func (s *Service) playEntryLocked(entry *playlist.Entry) {
	prevState := s.stateLocked()
	prev := s.current

	s.stopPlayerLocked()

	for entry != nil {
		p, err := s.open(*entry)
		if err == nil {
			s.player = p
			s.current = entry
			s.failCount = 0
			s.endedAt = time.Time{}
			p.SetVolume(s.volume)
			s.restoreResumeLocked(p, entry.Path)
			p.Play()

			s.broadcastTrack(TrackChange{Previous: prev, Current: entry, Index: s.queue.CurrentIndex()})
			s.broadcastState(prevState)
			return
		}

		log.Errorf("open %s: %v", entry.Path, err)
		s.broadcastError(ErrorEvent{Operation: "open", Path: entry.Path, Err: err})
		s.failCount++
		if s.failCount >= s.queue.Len() {
			s.failCount = 0
			break
		}
		entry = s.queue.Next()
	}

	s.current = nil
	s.broadcastState(prevState)
}

// restoreResumeLocked seeks to the saved position for path, if any.
func (s *Service) restoreResumeLocked(p player.Player, path string) {
	if s.resume == nil {
		return
	}
	if r, err := s.resume.Resume(path); err == nil && r != nil && r.Position > 0 {
		p.Seek(r.Position)
	}
}

// Tick drives the session once per presentation frame: updates the player
// and runs the end-of-entry auto-advance after the configured delay.
func (s *Service) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return
	}
	s.player.Update()

	now := s.now()
	if s.player.IsEnded() {
		if s.endedAt.IsZero() {
			s.endedAt = now
			if s.resume != nil && s.current != nil {
				_ = s.resume.Forget(s.current.Path)
			}
			s.broadcastState(StatePlaying)
		}
		if s.isShortAudioLocked() {
			s.seekToLocked(0)
			s.broadcastState(StateEnded)
			return
		}
		if s.delayAfter >= 0 && now.Sub(s.endedAt) >= s.delayAfter {
			s.playEntryLocked(s.queue.Next())
		}
		return
	}
	s.endedAt = time.Time{}

	if s.resume != nil && s.current != nil && !s.player.IsPaused() &&
		now.Sub(s.lastSave) >= resumeSaveInterval {
		s.lastSave = now
		s.resume.Save(state.Resume{
			Path:     s.current.Path,
			Position: s.player.Position(),
			Volume:   s.volume,
		})
	}
}

// isShortAudioLocked reports whether the current entry is a short audio
// track. Short tracks replay from the start; the user skips them manually.
func (s *Service) isShortAudioLocked() bool {
	if s.shortThreshold <= 0 || s.player == nil {
		return false
	}
	if s.current == nil || s.current.Kind != playlist.KindAudio {
		return false
	}
	length := s.player.Length()
	return length > 0 && length < s.shortThreshold
}

// Toggle flips between playing and paused.
func (s *Service) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return
	}
	prev := s.stateLocked()
	s.player.TogglePause()
	s.broadcastState(prev)
}

// Seek moves the current position by delta.
func (s *Service) Seek(delta time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return
	}
	s.seekToLocked(s.player.Position() + delta)
}

// SeekTo moves the current position to pos.
func (s *Service) SeekTo(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return
	}
	s.seekToLocked(pos)
}

func (s *Service) seekToLocked(pos time.Duration) {
	pos = max(pos, 0)
	s.player.Seek(pos)
	s.endedAt = time.Time{}
	s.broadcastPosition(pos)
}

// SetVolume sets the session volume, applied to the current player and
// carried to later ones.
func (s *Service) SetVolume(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = min(1, max(0, level))
	if s.player != nil {
		s.player.SetVolume(s.volume)
	}
}

// Stop halts playback and releases the current player.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.stateLocked()
	s.saveResumeLocked()
	s.stopPlayerLocked()
	s.current = nil
	s.broadcastState(prev)
}

func (s *Service) stopPlayerLocked() {
	if s.player != nil {
		s.player.Stop()
		s.player = nil
	}
	s.endedAt = time.Time{}
}

// saveResumeLocked pushes the current position to the resume store.
func (s *Service) saveResumeLocked() {
	if s.resume == nil || s.player == nil || s.current == nil || s.player.IsEnded() {
		return
	}
	s.resume.Save(state.Resume{
		Path:     s.current.Path,
		Position: s.player.Position(),
		Volume:   s.volume,
	})
}

// State reports the session state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Service) stateLocked() State {
	switch {
	case s.player == nil:
		return StateStopped
	case s.player.IsEnded():
		return StateEnded
	case s.player.IsPaused():
		return StatePaused
	default:
		return StatePlaying
	}
}

// Position returns the current playback position.
func (s *Service) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return 0
	}
	return s.player.Position()
}

// Length returns the current entry's duration.
func (s *Service) Length() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return 0
	}
	return s.player.Length()
}

// Volume returns the session volume level.
func (s *Service) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Current returns the entry being played, or nil.
func (s *Service) Current() *playlist.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentIndex returns the queue cursor.
func (s *Service) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.CurrentIndex()
}

// Entries returns the queued entries.
func (s *Service) Entries() []playlist.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Entries()
}

// Player exposes the current player for frame rendering. May be nil.
func (s *Service) Player() player.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Subscribe creates a new event subscription.
func (s *Service) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops playback, flushes resume state, and ends subscriptions.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.saveResumeLocked()
	s.stopPlayerLocked()
	s.current = nil
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
	return nil
}

func (s *Service) broadcastState(prev State) {
	cur := s.stateLocked()
	if cur == prev {
		return
	}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(StateChange{Previous: prev, Current: cur})
	}
}

func (s *Service) broadcastTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *Service) broadcastPosition(pos time.Duration) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPosition(pos)
	}
}

func (s *Service) broadcastError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}

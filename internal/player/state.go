package player

import (
	"math"
	"sync/atomic"
	"time"
)

// noSeek marks the seek request slot as empty.
const noSeek = int64(-1)

// flags is the lock-free playback state shared between the presentation
// goroutine and the decode goroutine.
//
// The presentation side writes commands (pause, seek, volume, stop); the
// decode side consumes them at loop boundaries and is the only writer of
// position. seek is a request slot: the presentation side stores a target,
// the decode side swaps it back to empty and performs the seek exactly once
// per request.
type flags struct {
	running atomic.Bool
	paused  atomic.Bool
	ended   atomic.Bool

	seek     atomic.Int64 // pending target in ns, noSeek when empty
	position atomic.Int64 // ns
	volume   atomic.Uint64
}

func newFlags() *flags {
	f := &flags{}
	f.seek.Store(noSeek)
	f.volume.Store(math.Float64bits(1))
	return f
}

// RequestSeek files a seek request, replacing any not-yet-consumed one.
// Negative targets clamp to zero.
func (f *flags) RequestSeek(target time.Duration) {
	if target < 0 {
		target = 0
	}
	f.seek.Store(int64(target))
}

// TakeSeek consumes the pending seek request, if any.
func (f *flags) TakeSeek() (time.Duration, bool) {
	v := f.seek.Swap(noSeek)
	if v < 0 {
		return 0, false
	}
	return time.Duration(v), true
}

// SeekPending reports whether a seek request is waiting, without consuming
// it. The paced frame wait polls this to abandon the wait early.
func (f *flags) SeekPending() bool {
	return f.seek.Load() >= 0
}

func (f *flags) Position() time.Duration {
	return time.Duration(f.position.Load())
}

func (f *flags) SetPosition(pos time.Duration) {
	f.position.Store(int64(pos))
}

func (f *flags) Volume() float64 {
	return math.Float64frombits(f.volume.Load())
}

func (f *flags) SetVolume(level float64) {
	f.volume.Store(math.Float64bits(math.Max(0, math.Min(1, level))))
}

package player

import "time"

// pacingGranularity bounds how long the paced frame wait sleeps between
// cancellation checks, keeping stop/seek latency under a frame interval.
const pacingGranularity = time.Millisecond

// clock anchors stream time to the wall clock for video pacing.
//
// The anchor is the wall-clock instant at which stream position zero began:
// a frame with presentation time pts is due at anchor+pts. Seeking rebases
// the anchor; pausing extends it by the pause duration so resuming does not
// dump a backlog of late frames.
//
// now and sleep are swappable for tests.
type clock struct {
	now   func() time.Time
	sleep func(time.Duration)

	anchor time.Time
}

func newClock() *clock {
	return &clock{now: time.Now, sleep: time.Sleep}
}

// Start anchors stream position zero at the current instant.
func (c *clock) Start() {
	c.anchor = c.now()
}

// Rebase re-anchors so that stream position pos is "now". Called after a
// seek.
func (c *clock) Rebase(pos time.Duration) {
	c.anchor = c.now().Add(-pos)
}

// Extend pushes the anchor forward by d. Called once per pause-loop sleep
// so paced timing does not drift while paused.
func (c *clock) Extend(d time.Duration) {
	c.anchor = c.anchor.Add(d)
}

// WaitUntil sleeps in small increments until stream time pts is due or
// cancel reports true. Returns false when cancelled. Frames that are
// already late return true immediately; there is no frame-drop policy.
func (c *clock) WaitUntil(pts time.Duration, cancel func() bool) bool {
	target := c.anchor.Add(pts)
	for c.now().Before(target) {
		if cancel() {
			return false
		}
		c.sleep(pacingGranularity)
	}
	return true
}

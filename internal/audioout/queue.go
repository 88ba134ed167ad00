package audioout

import "sync"

// queue is an unbounded FIFO of stereo samples bridging the decode
// goroutine (writer) and the speaker's streaming goroutine (reader).
// When the queue underruns it emits silence instead of ending, so the
// speaker keeps pulling; Close ends the stream once drained.
type queue struct {
	mu     sync.Mutex
	buf    [][2]float64
	head   int
	closed bool
}

func (q *queue) push(samples [][2]float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	// Compact once the dead prefix outgrows the live region.
	if q.head > len(q.buf)/2 {
		n := copy(q.buf, q.buf[q.head:])
		q.buf = q.buf[:n]
		q.head = 0
	}
	q.buf = append(q.buf, samples...)
}

// clear drops all queued samples. Used on seek so stale audio does not
// play over the new position.
func (q *queue) clear() {
	q.mu.Lock()
	q.buf = q.buf[:0]
	q.head = 0
	q.mu.Unlock()
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf) - q.head
}

// Stream implements beep.Streamer.
func (q *queue) Stream(samples [][2]float64) (n int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n = copy(samples, q.buf[q.head:])
	q.head += n

	if n < len(samples) {
		if q.closed {
			return n, n > 0
		}
		// Underrun: pad with silence rather than stalling the speaker.
		for i := n; i < len(samples); i++ {
			samples[i] = [2]float64{}
		}
		n = len(samples)
	}
	return n, true
}

// Err implements beep.Streamer.
func (q *queue) Err() error { return nil }

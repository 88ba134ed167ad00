package player

import (
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/saehun/mp/internal/media"
)

// blockSource is the slice of media.AudioSession the streamer pulls from.
type blockSource interface {
	ReadBlocks(emit func(media.AudioBlock)) error
	Seek(target time.Duration) error
	Close() error
}

// ffStream adapts a decoded audio session to beep's seekable streamer so
// formats outside the pure-Go decoder set play through the same speaker
// path as everything else. Samples are pulled on the speaker goroutine,
// mixed down to stereo and buffered between pulls.
type ffStream struct {
	src  blockSource
	rate beep.SampleRate

	length  int
	pos     int
	pending [][2]float64
	drained bool
}

// newFFStream opens path through the native decode libraries and wraps it
// as a beep streamer.
func newFFStream(path string) (beep.StreamSeekCloser, beep.Format, error) {
	sess, err := media.OpenAudio(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	rate := beep.SampleRate(sess.SampleRate())
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	return &ffStream{
		src:    sess,
		rate:   rate,
		length: rate.N(sess.Duration()),
	}, format, nil
}

func (s *ffStream) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if len(s.pending) == 0 && !s.refill() {
			break
		}
		c := copy(samples[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}
	s.pos += n
	return n, n > 0
}

// refill pulls packets until at least one sample block arrives, reporting
// false once the source is exhausted or failed. A packet yielding zero
// blocks (decoder buffering, skipped stream) is not an error.
func (s *ffStream) refill() bool {
	for len(s.pending) == 0 {
		if s.drained {
			return false
		}
		err := s.src.ReadBlocks(func(b media.AudioBlock) {
			s.pending = append(s.pending, blockToStereo(b)...)
		})
		if err != nil {
			// The container library reports end of stream as a read
			// error; treat any failure as exhaustion, the same way
			// the video decode loop does.
			s.drained = true
		}
	}
	return true
}

func (s *ffStream) Err() error { return nil }

func (s *ffStream) Len() int      { return s.length }
func (s *ffStream) Position() int { return s.pos }

func (s *ffStream) Seek(p int) error {
	p = max(p, 0)
	if err := s.src.Seek(s.rate.D(p)); err != nil {
		return err
	}
	s.pending = nil
	s.drained = false
	s.pos = p
	return nil
}

func (s *ffStream) Close() error {
	return s.src.Close()
}

// blockToStereo mixes one decoded block down to interleaved stereo: mono is
// duplicated, channels beyond the first two are dropped.
func blockToStereo(b media.AudioBlock) [][2]float64 {
	if len(b.Planes) == 0 {
		return nil
	}

	if b.Planar {
		n := len(b.Planes[0])
		out := make([][2]float64, n)
		for i := 0; i < n; i++ {
			l := float64(b.Planes[0][i])
			r := l
			if len(b.Planes) > 1 && i < len(b.Planes[1]) {
				r = float64(b.Planes[1][i])
			}
			out[i] = [2]float64{l, r}
		}
		return out
	}

	ch := b.Channels
	if ch <= 0 {
		return nil
	}
	n := len(b.Planes[0]) / ch
	out := make([][2]float64, n)
	for i := 0; i < n; i++ {
		group := b.Planes[0][i*ch : (i+1)*ch]
		l := float64(group[0])
		r := l
		if ch > 1 {
			r = float64(group[1])
		}
		out[i] = [2]float64{l, r}
	}
	return out
}

var _ beep.StreamSeekCloser = (*ffStream)(nil)

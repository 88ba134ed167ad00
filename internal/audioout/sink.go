// Package audioout provides a push-style audio output over the beep
// speaker: decoded sample blocks are queued as they arrive and the device's
// own buffering paces playback. Video pacing happens elsewhere against the
// wall clock; audio is never the master clock.
package audioout

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// initSpeaker opens the global speaker on first use. The first stream's
// sample rate wins; later sinks at other rates are resampled.
func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}

// Ensure opens the global speaker at the given rate if no stream opened it
// yet and returns the device rate actually in effect. Callers that play
// their own beep streamers resample against the returned rate.
func Ensure(sampleRate int) (beep.SampleRate, error) {
	if err := initSpeaker(beep.SampleRate(sampleRate)); err != nil {
		return 0, err
	}
	speakerMu.Lock()
	defer speakerMu.Unlock()
	return speakerSampleRate, nil
}

// LevelToVolume converts a linear 0..1 level to beep's base-2 volume
// scale: 1.0 is unity, each halving of the level drops one octave.
func LevelToVolume(level float64) float64 {
	return levelToVolume(level)
}

// Sink accepts interleaved or planar float32 sample blocks from the decode
// goroutine and plays them through the speaker.
type Sink struct {
	queue    *queue
	vol      *effects.Volume
	channels int
}

// NewSink opens a push stream for the given source format and starts
// playing it (initially silence) on the speaker.
func NewSink(sampleRate, channels int) (*Sink, error) {
	rate := beep.SampleRate(sampleRate)
	if err := initSpeaker(rate); err != nil {
		return nil, err
	}

	q := &queue{}
	var streamer beep.Streamer = q
	if rate != speakerSampleRate {
		streamer = beep.Resample(4, rate, speakerSampleRate, q)
	}
	vol := &effects.Volume{Streamer: streamer, Base: 2, Volume: 0}

	s := &Sink{queue: q, vol: vol, channels: channels}
	speaker.Play(vol)
	return s, nil
}

// PushInterleaved queues one block of interleaved samples.
func (s *Sink) PushInterleaved(samples []float32, channels int) {
	if channels <= 0 {
		return
	}
	n := len(samples) / channels
	out := make([][2]float64, n)
	for i := 0; i < n; i++ {
		out[i] = toStereo(samples[i*channels : (i+1)*channels])
	}
	s.queue.push(out)
}

// PushPlanar queues one block of planar samples, one plane per channel.
func (s *Sink) PushPlanar(planes [][]float32) {
	if len(planes) == 0 {
		return
	}
	n := len(planes[0])
	out := make([][2]float64, n)
	for i := 0; i < n; i++ {
		l := float64(planes[0][i])
		r := l
		if len(planes) > 1 && i < len(planes[1]) {
			r = float64(planes[1][i])
		}
		out[i] = [2]float64{l, r}
	}
	s.queue.push(out)
}

// toStereo maps one interleaved sample group onto two output channels:
// mono is duplicated, extra channels beyond the first two are dropped.
func toStereo(group []float32) [2]float64 {
	switch len(group) {
	case 0:
		return [2]float64{}
	case 1:
		v := float64(group[0])
		return [2]float64{v, v}
	default:
		return [2]float64{float64(group[0]), float64(group[1])}
	}
}

// Clear drops every queued sample. Called on seek.
func (s *Sink) Clear() {
	s.queue.clear()
}

// Buffered returns the number of queued stereo samples.
func (s *Sink) Buffered() int {
	return s.queue.len()
}

// SetGain sets the output gain from a 0..1 level using the same
// logarithmic mapping as the audio player: 1.0 -> unity, 0.5 -> half
// loudness per doubling, 0 -> silent.
func (s *Sink) SetGain(level float64) {
	level = math.Max(0, math.Min(1, level))
	speaker.Lock()
	if level <= 0 {
		s.vol.Silent = true
	} else {
		s.vol.Silent = false
		s.vol.Volume = levelToVolume(level)
	}
	speaker.Unlock()
}

// Close ends the stream once queued samples drain. Idempotent.
func (s *Sink) Close() {
	s.queue.close()
}

// levelToVolume converts a linear 0..1 level to beep's base-2 volume scale.
func levelToVolume(level float64) float64 {
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

package media

import (
	"fmt"
	"time"

	"github.com/obinnaokechukwu/ffgo/avcodec"
	"github.com/obinnaokechukwu/ffgo/avformat"
	"github.com/obinnaokechukwu/ffgo/avutil"
)

// AudioSession is an open container with only its best audio stream
// selected. It backs playback of audio formats the pure-Go decoders do not
// cover (aac, m4a, ape, opus); containers with a video stream go through
// Session instead.
type AudioSession struct {
	fmtCtx avformat.FormatContext
	ctx    avcodec.Context
	idx    int

	sampleRate int
	channels   int
	duration   time.Duration

	pkt   avcodec.Packet
	frame avutil.Frame

	closed bool
}

// OpenAudio opens path and selects its best audio stream.
func OpenAudio(path string) (*AudioSession, error) {
	s := &AudioSession{idx: -1}

	if err := avformat.OpenInput(&s.fmtCtx, path, nil, nil); err != nil {
		return nil, fmt.Errorf("media: open %s: %w", path, err)
	}
	if err := avformat.FindStreamInfo(s.fmtCtx, nil); err != nil {
		s.Close()
		return nil, fmt.Errorf("media: probe %s: %w", path, err)
	}

	if d := avformat.GetDuration(s.fmtCtx); d > 0 {
		s.duration = time.Duration(d) * time.Second / avTimeBase
	}

	idx := avformat.FindBestStream(s.fmtCtx, avutil.MediaTypeAudio, -1, -1, nil, 0)
	if idx < 0 {
		s.Close()
		return nil, ErrNoAudioStream
	}
	ctx, err := openDecoder(s.fmtCtx, int(idx))
	if err != nil {
		s.Close()
		return nil, err
	}
	s.ctx = ctx
	s.idx = int(idx)
	s.sampleRate = int(avcodec.GetCtxSampleRate(s.ctx))
	s.channels = int(avcodec.GetCtxChannels(s.ctx))
	if s.sampleRate <= 0 || s.channels <= 0 {
		s.Close()
		return nil, fmt.Errorf("media: invalid audio format %dHz/%dch", s.sampleRate, s.channels)
	}

	s.pkt = avcodec.PacketAlloc()
	s.frame = avutil.FrameAlloc()
	if s.pkt == nil || s.frame == nil {
		s.Close()
		return nil, fmt.Errorf("media: allocation failed")
	}

	return s, nil
}

// SampleRate returns the stream's sample rate in Hz.
func (s *AudioSession) SampleRate() int { return s.sampleRate }

// Channels returns the stream's channel count.
func (s *AudioSession) Channels() int { return s.channels }

// Duration returns the container duration, or zero when unknown.
func (s *AudioSession) Duration() time.Duration { return s.duration }

// ReadBlocks demuxes and decodes the next audio packet, passing each sample
// block it yields to emit. Packets from other streams are skipped. Returns
// the container library's error at end of stream; a packet may legitimately
// yield zero blocks (decoder buffering), so callers loop.
func (s *AudioSession) ReadBlocks(emit func(AudioBlock)) error {
	if s.closed {
		return ErrClosed
	}
	for {
		if err := avformat.ReadFrame(s.fmtCtx, s.pkt); err != nil {
			return err
		}
		if int(avcodec.GetPacketStreamIndex(s.pkt)) != s.idx {
			avcodec.PacketUnref(s.pkt)
			continue
		}
		err := avcodec.SendPacket(s.ctx, s.pkt)
		avcodec.PacketUnref(s.pkt)
		if err != nil {
			return fmt.Errorf("media: send audio packet: %w", err)
		}
		for {
			if err := avcodec.ReceiveFrame(s.ctx, s.frame); err != nil {
				return nil
			}
			nb := int(avutil.GetFrameNbSamples(s.frame))
			fmtv := avutil.GetFrameFormat(s.frame)
			planes := audioPlanes(s.frame, fmtv, nb, s.channels)
			if block, ok := convertSamples(fmtv, planes, nb, s.channels); ok {
				emit(block)
			}
		}
	}
}

// Seek positions the container at the nearest keyframe at or before target
// and flushes decoder state.
func (s *AudioSession) Seek(target time.Duration) error {
	if s.closed {
		return ErrClosed
	}
	ts := int64(target.Seconds() * avTimeBase)
	if err := avformat.SeekFrame(s.fmtCtx, -1, ts, seekFlagBackward); err != nil {
		return fmt.Errorf("media: seek to %v: %w", target, err)
	}
	avcodec.FlushBuffers(s.ctx)
	return nil
}

// Close releases every native handle. Safe to call more than once and on
// partially-constructed sessions.
func (s *AudioSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.frame != nil {
		avutil.FrameFree(&s.frame)
	}
	if s.pkt != nil {
		avcodec.PacketFree(&s.pkt)
	}
	if s.ctx != nil {
		avcodec.Close(s.ctx)
		avcodec.FreeContext(&s.ctx)
	}
	if s.fmtCtx != nil {
		avformat.CloseInput(&s.fmtCtx)
	}
	return nil
}

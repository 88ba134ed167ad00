package media

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/obinnaokechukwu/ffgo/avcodec"
	"github.com/obinnaokechukwu/ffgo/avformat"
	"github.com/obinnaokechukwu/ffgo/avutil"
)

const (
	// avTimeBase is the tick rate of container-level timestamps.
	avTimeBase = 1_000_000

	// noPTSValue is AV_NOPTS_VALUE.
	noPTSValue = int64(math.MinInt64)

	// seekFlagBackward asks for the nearest keyframe at or before the target.
	seekFlagBackward = 1

	// avSubtitleStructSize is sizeof(AVSubtitle) on 64-bit platforms.
	avSubtitleStructSize = 32

	// defaultSubtitleDisplay is used when the codec supplies no explicit
	// end display time.
	defaultSubtitleDisplay = 3 * time.Second
)

// Session is an open media container with its selected stream decoders.
type Session struct {
	fmtCtx avformat.FormatContext

	videoCtx avcodec.Context
	audioCtx avcodec.Context
	subCtx   avcodec.Context

	videoIdx int
	audioIdx int
	subIdx   int

	videoTB float64 // seconds per video stream tick
	subTB   float64 // seconds per subtitle stream tick

	width, height int
	pixFmt        PixelFormat
	sampleRate    int
	channels      int
	sampleFmt     int32

	duration time.Duration

	pkt   avcodec.Packet
	frame avutil.Frame
	sub   unsafe.Pointer // reusable AVSubtitle
	rgba  []byte         // reusable conversion buffer, width*height*4

	closed bool
}

// Open opens path and selects the best video stream, the best audio stream
// (preferring one multiplexed with the video) and, when withSubtitles is
// set, the best subtitle stream. Callers pass withSubtitles=false when an
// external subtitle file already covers this media path.
//
// A session with no video stream is not created; ErrNoVideoStream tells the
// caller to fall back to the audio-only player. Any partially-acquired
// native handles are released before returning an error.
func Open(path string, withSubtitles bool) (*Session, error) {
	s := &Session{videoIdx: -1, audioIdx: -1, subIdx: -1}

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

	vIdx := avformat.FindBestStream(s.fmtCtx, avutil.MediaTypeVideo, -1, -1, nil, 0)
	if vIdx < 0 {
		s.Close()
		return nil, ErrNoVideoStream
	}
	ctx, err := openDecoder(s.fmtCtx, int(vIdx))
	if err != nil {
		s.Close()
		return nil, err
	}
	s.videoCtx = ctx
	s.videoIdx = int(vIdx)
	s.videoTB = streamTimeBase(s.fmtCtx, s.videoIdx)
	s.width = int(avcodec.GetCtxWidth(s.videoCtx))
	s.height = int(avcodec.GetCtxHeight(s.videoCtx))
	s.pixFmt = PixelFormat(avcodec.GetCtxPixFmt(s.videoCtx))
	if s.width <= 0 || s.height <= 0 {
		s.Close()
		return nil, fmt.Errorf("media: invalid video dimensions %dx%d", s.width, s.height)
	}

	// Best audio stream, tie-broken towards the chosen video stream.
	if aIdx := avformat.FindBestStream(s.fmtCtx, avutil.MediaTypeAudio, -1, vIdx, nil, 0); aIdx >= 0 {
		if ctx, err := openDecoder(s.fmtCtx, int(aIdx)); err == nil {
			s.audioCtx = ctx
			s.audioIdx = int(aIdx)
			s.sampleRate = int(avcodec.GetCtxSampleRate(s.audioCtx))
			s.channels = int(avcodec.GetCtxChannels(s.audioCtx))
			s.sampleFmt = avcodec.GetCtxSampleFmt(s.audioCtx)
		}
	}

	if withSubtitles {
		if subIdx := avformat.FindBestStream(s.fmtCtx, avutil.MediaTypeSubtitle, -1, -1, nil, 0); subIdx >= 0 {
			if ctx, err := openDecoder(s.fmtCtx, int(subIdx)); err == nil {
				s.subCtx = ctx
				s.subIdx = int(subIdx)
				s.subTB = streamTimeBase(s.fmtCtx, s.subIdx)
				s.sub = avutil.Malloc(avSubtitleStructSize)
			}
		}
	}

	s.pkt = avcodec.PacketAlloc()
	s.frame = avutil.FrameAlloc()
	s.rgba = make([]byte, s.width*s.height*4)
	if s.pkt == nil || s.frame == nil {
		s.Close()
		return nil, fmt.Errorf("media: allocation failed")
	}

	return s, nil
}

// openDecoder allocates, configures and opens a decoder for one stream.
func openDecoder(fmtCtx avformat.FormatContext, idx int) (avcodec.Context, error) {
	stream := avformat.GetStream(fmtCtx, idx)
	par := avformat.GetStreamCodecPar(stream)
	codec := avcodec.FindDecoder(avformat.GetCodecParCodecID(par))
	if codec == nil {
		return nil, fmt.Errorf("media: no decoder for stream %d", idx)
	}
	ctx := avcodec.AllocContext3(codec)
	if ctx == nil {
		return nil, fmt.Errorf("media: alloc codec context for stream %d", idx)
	}
	if err := avcodec.ParametersToContext(ctx, par); err != nil {
		avcodec.FreeContext(&ctx)
		return nil, fmt.Errorf("media: stream %d parameters: %w", idx, err)
	}
	if err := avcodec.Open2(ctx, codec, nil); err != nil {
		avcodec.FreeContext(&ctx)
		return nil, fmt.Errorf("media: open decoder for stream %d: %w", idx, err)
	}
	return ctx, nil
}

func streamTimeBase(fmtCtx avformat.FormatContext, idx int) float64 {
	num, den := avformat.GetStreamTimeBase(avformat.GetStream(fmtCtx, idx))
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Duration returns the container duration, or zero when unknown.
func (s *Session) Duration() time.Duration { return s.duration }

// Size returns the native video dimensions.
func (s *Session) Size() (w, h int) { return s.width, s.height }

// HasAudio reports whether an audio stream was selected and opened.
func (s *Session) HasAudio() bool { return s.audioCtx != nil }

// AudioFormat returns the selected audio stream's sample rate and channel
// count. Only meaningful when HasAudio is true.
func (s *Session) AudioFormat() (sampleRate, channels int) {
	return s.sampleRate, s.channels
}

// HasSubtitleStream reports whether an embedded subtitle stream is active.
func (s *Session) HasSubtitleStream() bool { return s.subCtx != nil }

// packet wraps the session's reusable AVPacket for one dispatch.
type packet struct {
	s    *Session
	kind PacketKind
}

func (p packet) Kind() PacketKind { return p.kind }
func (p packet) Unref()           { avcodec.PacketUnref(p.s.pkt) }

// ReadPacket demuxes the next packet. Any read failure is reported as
// io-style end-of-stream by returning a nil Packet and the error; the
// decode loop treats it as stream exhaustion, matching the container
// library's behavior of returning an error at EOF.
func (s *Session) ReadPacket() (Packet, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := avformat.ReadFrame(s.fmtCtx, s.pkt); err != nil {
		return nil, err
	}
	kind := KindOther
	switch int(avcodec.GetPacketStreamIndex(s.pkt)) {
	case s.videoIdx:
		kind = KindVideo
	case s.audioIdx:
		if s.audioCtx != nil {
			kind = KindAudio
		}
	case s.subIdx:
		if s.subCtx != nil {
			kind = KindSubtitle
		}
	}
	return packet{s: s, kind: kind}, nil
}

// DecodeVideo decodes the packet into zero or more frames, converting each
// to RGBA in the session's reusable buffer and handing it to emit. emit
// returning false abandons the remaining frames (stop or new seek pending).
// A send failure is returned so the caller can log and skip the packet.
func (s *Session) DecodeVideo(p Packet, emit func(VideoFrame) bool) error {
	if s.closed {
		return ErrClosed
	}
	if err := avcodec.SendPacket(s.videoCtx, s.pkt); err != nil {
		return fmt.Errorf("media: send video packet: %w", err)
	}
	for {
		if err := avcodec.ReceiveFrame(s.videoCtx, s.frame); err != nil {
			// Needs more input or end of stream; either way this
			// packet is exhausted.
			return nil
		}
		pts := time.Duration(float64(avutil.GetFramePTS(s.frame)) * s.videoTB * float64(time.Second))

		stride := s.width * 4
		planes, strides := framePlanes(s.frame, s.pixFmt, s.height)
		if err := ConvertRGBA(s.pixFmt, s.width, s.height, planes, strides, s.rgba, stride); err != nil {
			// Unconvertible frame: skip it, keep decoding.
			continue
		}
		f := VideoFrame{PTS: pts, Pix: s.rgba, Stride: stride, Width: s.width, Height: s.height}
		if !emit(f) {
			return nil
		}
	}
}

// DecodeAudio decodes the packet into zero or more float32 sample blocks.
// Blocks in sample formats we cannot convert are silently skipped.
func (s *Session) DecodeAudio(p Packet, emit func(AudioBlock)) error {
	if s.closed {
		return ErrClosed
	}
	if s.audioCtx == nil {
		return nil
	}
	if err := avcodec.SendPacket(s.audioCtx, s.pkt); err != nil {
		return fmt.Errorf("media: send audio packet: %w", err)
	}
	for {
		if err := avcodec.ReceiveFrame(s.audioCtx, s.frame); err != nil {
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

// DecodeSubtitle decodes the packet into zero or more subtitle events.
// Display start derives from the packet PTS in stream time; when the codec
// supplies no end display time a fixed 3-second duration applies.
func (s *Session) DecodeSubtitle(p Packet) ([]SubtitleEvent, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.subCtx == nil || s.sub == nil {
		return nil, nil
	}

	clearStruct(s.sub, avSubtitleStructSize)
	got, err := avcodec.DecodeSubtitle2(s.subCtx, s.sub, s.pkt)
	if err != nil {
		return nil, fmt.Errorf("media: decode subtitle: %w", err)
	}
	if !got {
		return nil, nil
	}
	defer avcodec.SubtitleFree(s.sub)

	var start time.Duration
	if pts := avcodec.GetPacketPTS(s.pkt); pts != noPTSValue {
		start = time.Duration(float64(pts) * s.subTB * float64(time.Second))
	}
	end := start + defaultSubtitleDisplay
	if ms := subEndDisplayMS(s.sub); ms > 0 {
		end = start + time.Duration(ms)*time.Millisecond
	}

	var events []SubtitleEvent
	for _, text := range subRectTexts(s.sub) {
		events = append(events, SubtitleEvent{Start: start, End: end, Text: text})
	}
	return events, nil
}

// Seek positions the container at the nearest keyframe at or before target
// and flushes all decoder state so stale reference frames are discarded.
// Out-of-range targets are clamped by the container library.
func (s *Session) Seek(target time.Duration) error {
	if s.closed {
		return ErrClosed
	}
	ts := int64(target.Seconds() * avTimeBase)
	if err := avformat.SeekFrame(s.fmtCtx, -1, ts, seekFlagBackward); err != nil {
		return fmt.Errorf("media: seek to %v: %w", target, err)
	}
	avcodec.FlushBuffers(s.videoCtx)
	if s.audioCtx != nil {
		avcodec.FlushBuffers(s.audioCtx)
	}
	if s.subCtx != nil {
		avcodec.FlushBuffers(s.subCtx)
	}
	return nil
}

// Close releases every native handle. Safe to call more than once and on
// partially-constructed sessions.
func (s *Session) Close() error {
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
	if s.sub != nil {
		avutil.Free(s.sub)
		s.sub = nil
	}
	for _, ctx := range []*avcodec.Context{&s.subCtx, &s.audioCtx, &s.videoCtx} {
		if *ctx != nil {
			avcodec.Close(*ctx)
			avcodec.FreeContext(ctx)
		}
	}
	if s.fmtCtx != nil {
		avformat.CloseInput(&s.fmtCtx)
	}
	return nil
}

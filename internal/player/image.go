package player

import (
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/saehun/mp/internal/media"
)

// Image displays a still or animated image as a timed playback session.
// A still shows its single frame for the configured display duration;
// a GIF steps through its frames on their own delays, looping until the
// display duration elapses. A zero duration means show forever.
type Image struct {
	frames []*image.RGBA
	delays []time.Duration
	cycle  time.Duration

	display time.Duration
	level   float64

	playing  bool
	paused   bool
	ended    bool
	position time.Duration
	lastTick time.Time

	now func() time.Time
}

// NewImage loads path. Formats the standard decoders do not cover are
// decoded through the video stack as a single frame.
func NewImage(path string, display time.Duration) (*Image, error) {
	p := &Image{display: display, level: 1, now: time.Now}

	if err := p.load(path); err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, statErr
		}
		frame, ferr := decodeFirstFrame(path)
		if ferr != nil {
			return nil, err
		}
		p.frames = []*image.RGBA{frame}
		p.delays = []time.Duration{0}
	}
	return p, nil
}

func (p *Image) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if g, err := gif.DecodeAll(f); err == nil && len(g.Image) > 1 {
		p.loadAnimation(g)
		return nil
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return err
	}
	p.frames = []*image.RGBA{toRGBA(img)}
	p.delays = []time.Duration{0}
	return nil
}

// loadAnimation flattens the GIF's frames: each frame is composed over
// the previous one so partial-update frames render correctly.
func (p *Image) loadAnimation(g *gif.GIF) {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	for i, frame := range g.Image {
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		snapshot := image.NewRGBA(bounds)
		copy(snapshot.Pix, canvas.Pix)
		p.frames = append(p.frames, snapshot)

		delay := 100 * time.Millisecond
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		p.delays = append(p.delays, delay)
		p.cycle += delay
	}
}

// decodeFirstFrame pulls one video frame out of the container.
func decodeFirstFrame(path string) (*image.RGBA, error) {
	sess, err := media.Open(path, false)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	var out *image.RGBA
	for out == nil {
		pkt, err := sess.ReadPacket()
		if err != nil {
			return nil, media.ErrNoVideoStream
		}
		if pkt.Kind() == media.KindVideo {
			err = sess.DecodeVideo(pkt, func(f media.VideoFrame) bool {
				img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
				for y := 0; y < f.Height; y++ {
					copy(img.Pix[y*img.Stride:], f.Pix[y*f.Stride:y*f.Stride+f.Width*4])
				}
				out = img
				return false
			})
			if err != nil {
				pkt.Unref()
				return nil, err
			}
		}
		pkt.Unref()
	}
	return out, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

func (p *Image) Play() {
	if p.playing || len(p.frames) == 0 {
		return
	}
	p.playing = true
	p.lastTick = p.now()
}

func (p *Image) Stop() {
	p.playing = false
	p.frames = nil
	p.delays = nil
}

// Update advances the display timer and reports false once the display
// duration has elapsed.
func (p *Image) Update() bool {
	if !p.playing || p.ended {
		return !p.ended
	}
	now := p.now()
	if !p.paused {
		p.position += now.Sub(p.lastTick)
	}
	p.lastTick = now

	if p.display > 0 && p.position >= p.display {
		p.ended = true
		return false
	}
	return true
}

func (p *Image) TogglePause() { p.paused = !p.paused }

func (p *Image) Seek(pos time.Duration) {
	p.position = max(pos, 0)
	if p.display > 0 && p.position < p.display {
		p.ended = false
	}
}

func (p *Image) SetVolume(level float64) { p.level = min(1, max(0, level)) }

func (p *Image) Position() time.Duration { return p.position }

func (p *Image) Length() time.Duration {
	if p.display > 0 {
		return p.display
	}
	return p.cycle
}

func (p *Image) Volume() float64 { return p.level }

func (p *Image) IsPlaying() bool { return p.playing }
func (p *Image) IsPaused() bool  { return p.paused }
func (p *Image) IsEnded() bool   { return p.ended }

// Frame returns the frame active at the current position. Animated
// images loop their cycle; stills always return their only frame.
func (p *Image) Frame() *image.RGBA {
	if len(p.frames) == 0 {
		return nil
	}
	if len(p.frames) == 1 || p.cycle == 0 {
		return p.frames[0]
	}
	offset := p.position % p.cycle
	for i, d := range p.delays {
		if offset < d {
			return p.frames[i]
		}
		offset -= d
	}
	return p.frames[len(p.frames)-1]
}

func (p *Image) SubtitleText() string { return "" }

var _ Player = (*Image)(nil)

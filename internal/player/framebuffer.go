package player

import (
	"image"
	"sync"

	"github.com/saehun/mp/internal/media"
)

// frameBuffer is a single-slot handoff between the decode loop and the
// render side. Publish overwrites whatever the renderer has not taken yet,
// so the renderer always sees the latest frame and the decoder never
// blocks on a slow consumer.
type frameBuffer struct {
	mu     sync.Mutex
	pix    []byte
	width  int
	height int
	ready  bool
}

// Publish copies the frame pixels into the slot, honoring the source
// stride, and marks it ready. The frame's pixel buffer may be reused by
// the caller as soon as Publish returns.
func (b *frameBuffer) Publish(f media.VideoFrame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rowBytes := f.Width * 4
	need := rowBytes * f.Height
	if cap(b.pix) < need {
		b.pix = make([]byte, need)
	}
	b.pix = b.pix[:need]
	for y := 0; y < f.Height; y++ {
		copy(b.pix[y*rowBytes:(y+1)*rowBytes], f.Pix[y*f.Stride:y*f.Stride+rowBytes])
	}
	b.width = f.Width
	b.height = f.Height
	b.ready = true
}

// Take copies the pending frame into an *image.RGBA and clears the ready
// flag. Returns nil when no new frame arrived since the last Take. The
// returned image is allocated fresh only when dimensions change.
func (b *frameBuffer) Take(prev *image.RGBA) *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return nil
	}
	b.ready = false

	img := prev
	if img == nil || img.Rect.Dx() != b.width || img.Rect.Dy() != b.height {
		img = image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	}
	copy(img.Pix, b.pix)
	return img
}

package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/nfnt/resize"
)

// Frame renders an image into a cells-wide by rows-tall block of text
// using upper half blocks: each cell carries two pixels, the top one as
// the foreground color and the bottom one as the background. The image
// aspect ratio is preserved against the 1:2 cell aspect; the block is
// centered in the requested area.
func Frame(img *image.RGBA, cells, rows int) string {
	if img == nil || cells <= 0 || rows <= 0 {
		return ""
	}

	b := img.Bounds()
	iw, ih := b.Dx(), b.Dy()
	if iw == 0 || ih == 0 {
		return ""
	}

	// Pixel grid available: one pixel per column, two per row.
	maxW, maxH := cells, rows*2
	scale := min(float64(maxW)/float64(iw), float64(maxH)/float64(ih))
	pw := max(int(float64(iw)*scale), 1)
	ph := max(int(float64(ih)*scale), 2)

	scaled := resize.Resize(uint(pw), uint(ph), img, resize.Bilinear) //nolint:gosec

	rgba, ok := scaled.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(scaled.Bounds())
		for y := scaled.Bounds().Min.Y; y < scaled.Bounds().Max.Y; y++ {
			for x := scaled.Bounds().Min.X; x < scaled.Bounds().Max.X; x++ {
				rgba.Set(x, y, scaled.At(x, y))
			}
		}
	}

	padLeft := (cells - pw) / 2
	padTop := (rows - ph/2) / 2

	var out strings.Builder
	for i := 0; i < padTop; i++ {
		out.WriteString(strings.Repeat(" ", cells))
		out.WriteByte('\n')
	}

	sb := rgba.Bounds()
	for y := sb.Min.Y; y+1 < sb.Max.Y; y += 2 {
		out.WriteString(strings.Repeat(" ", padLeft))
		for x := sb.Min.X; x < sb.Max.X; x++ {
			top := rgba.RGBAAt(x, y)
			bot := rgba.RGBAAt(x, y+1)
			fmt.Fprintf(&out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}
		out.WriteString("\x1b[0m")
		out.WriteString(strings.Repeat(" ", cells-padLeft-pw))
		out.WriteByte('\n')
	}

	used := padTop + ph/2
	for i := used; i < rows; i++ {
		out.WriteString(strings.Repeat(" ", cells))
		if i < rows-1 {
			out.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(out.String(), "\n")
}

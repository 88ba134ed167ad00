package media

import (
	"fmt"
	"image/color"
)

// PixelFormat mirrors the libavutil pixel format values we can convert.
// No swscale binding exists in ffgo, so the conversion to RGBA is done here;
// it is plain per-pixel arithmetic over the decoded planes.
type PixelFormat int32

const (
	PixYUV420P  PixelFormat = 0
	PixYUV422P  PixelFormat = 4
	PixYUV444P  PixelFormat = 5
	PixGray8    PixelFormat = 8
	PixYUVJ420P PixelFormat = 12
	PixYUVJ422P PixelFormat = 13
	PixYUVJ444P PixelFormat = 14
	PixNV12     PixelFormat = 23
	PixNV21     PixelFormat = 24
	PixRGBA     PixelFormat = 26
	PixBGRA     PixelFormat = 28
	PixRGB24    PixelFormat = 2
	PixBGR24    PixelFormat = 3
)

// ConvertRGBA converts one decoded frame into packed RGBA in dst, honoring
// the source plane strides. dst must hold at least h*dstStride bytes with
// dstStride >= w*4. Unknown source formats return an error; the decode loop
// skips such frames.
func ConvertRGBA(pf PixelFormat, w, h int, planes [][]byte, strides []int, dst []byte, dstStride int) error {
	switch pf {
	case PixYUV420P, PixYUVJ420P:
		return yuvToRGBA(w, h, planes, strides, dst, dstStride, 1, 1)
	case PixYUV422P, PixYUVJ422P:
		return yuvToRGBA(w, h, planes, strides, dst, dstStride, 1, 0)
	case PixYUV444P, PixYUVJ444P:
		return yuvToRGBA(w, h, planes, strides, dst, dstStride, 0, 0)
	case PixNV12:
		return nvToRGBA(w, h, planes, strides, dst, dstStride, false)
	case PixNV21:
		return nvToRGBA(w, h, planes, strides, dst, dstStride, true)
	case PixGray8:
		return grayToRGBA(w, h, planes, strides, dst, dstStride)
	case PixRGBA:
		return packedToRGBA(w, h, planes, strides, dst, dstStride, 4, 0, 1, 2, true)
	case PixBGRA:
		return packedToRGBA(w, h, planes, strides, dst, dstStride, 4, 2, 1, 0, true)
	case PixRGB24:
		return packedToRGBA(w, h, planes, strides, dst, dstStride, 3, 0, 1, 2, false)
	case PixBGR24:
		return packedToRGBA(w, h, planes, strides, dst, dstStride, 3, 2, 1, 0, false)
	default:
		return fmt.Errorf("media: unsupported pixel format %d", pf)
	}
}

// yuvToRGBA handles planar YUV with chroma subsampled by 2^shiftX / 2^shiftY.
func yuvToRGBA(w, h int, planes [][]byte, strides []int, dst []byte, dstStride, shiftX, shiftY int) error {
	if len(planes) < 3 || len(strides) < 3 {
		return fmt.Errorf("media: planar yuv needs 3 planes, got %d", len(planes))
	}
	yp, up, vp := planes[0], planes[1], planes[2]
	ys, us, vs := strides[0], strides[1], strides[2]
	for y := 0; y < h; y++ {
		cy := y >> shiftY
		row := dst[y*dstStride:]
		for x := 0; x < w; x++ {
			cx := x >> shiftX
			r, g, b := color.YCbCrToRGB(yp[y*ys+x], up[cy*us+cx], vp[cy*vs+cx])
			o := x * 4
			row[o+0] = r
			row[o+1] = g
			row[o+2] = b
			row[o+3] = 0xff
		}
	}
	return nil
}

// nvToRGBA handles NV12/NV21: full-res luma plane plus interleaved
// half-res chroma plane (UV for NV12, VU for NV21).
func nvToRGBA(w, h int, planes [][]byte, strides []int, dst []byte, dstStride int, swapped bool) error {
	if len(planes) < 2 || len(strides) < 2 {
		return fmt.Errorf("media: nv12/nv21 needs 2 planes, got %d", len(planes))
	}
	yp, cp := planes[0], planes[1]
	ys, cs := strides[0], strides[1]
	for y := 0; y < h; y++ {
		crow := cp[(y>>1)*cs:]
		row := dst[y*dstStride:]
		for x := 0; x < w; x++ {
			co := (x >> 1) * 2
			cb, cr := crow[co], crow[co+1]
			if swapped {
				cb, cr = cr, cb
			}
			r, g, b := color.YCbCrToRGB(yp[y*ys+x], cb, cr)
			o := x * 4
			row[o+0] = r
			row[o+1] = g
			row[o+2] = b
			row[o+3] = 0xff
		}
	}
	return nil
}

func grayToRGBA(w, h int, planes [][]byte, strides []int, dst []byte, dstStride int) error {
	if len(planes) < 1 || len(strides) < 1 {
		return fmt.Errorf("media: gray8 needs 1 plane")
	}
	gp, gs := planes[0], strides[0]
	for y := 0; y < h; y++ {
		row := dst[y*dstStride:]
		for x := 0; x < w; x++ {
			v := gp[y*gs+x]
			o := x * 4
			row[o+0] = v
			row[o+1] = v
			row[o+2] = v
			row[o+3] = 0xff
		}
	}
	return nil
}

// packedToRGBA reorders packed RGB formats. ri/gi/bi give the source byte
// offsets of each component inside one pixel; hasAlpha preserves the source
// alpha byte at offset 3.
func packedToRGBA(w, h int, planes [][]byte, strides []int, dst []byte, dstStride, bpp, ri, gi, bi int, hasAlpha bool) error {
	if len(planes) < 1 || len(strides) < 1 {
		return fmt.Errorf("media: packed rgb needs 1 plane")
	}
	sp, ss := planes[0], strides[0]
	for y := 0; y < h; y++ {
		srow := sp[y*ss:]
		row := dst[y*dstStride:]
		for x := 0; x < w; x++ {
			so := x * bpp
			o := x * 4
			row[o+0] = srow[so+ri]
			row[o+1] = srow[so+gi]
			row[o+2] = srow[so+bi]
			if hasAlpha {
				row[o+3] = srow[so+3]
			} else {
				row[o+3] = 0xff
			}
		}
	}
	return nil
}

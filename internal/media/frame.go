package media

import (
	"unsafe"

	"github.com/obinnaokechukwu/ffgo/avutil"
)

// AVSubtitle / AVSubtitleRect field offsets for 64-bit FFmpeg 6.x/7.x,
// matching the layout ffgo's own subtitle support reads.
const (
	offSubEndDisplayTime = 8  // uint32 end_display_time (ms)
	offSubNumRects       = 12 // unsigned num_rects
	offSubRects          = 16 // AVSubtitleRect **rects

	offRectType = 72 // enum AVSubtitleType
	offRectText = 80 // char *text
	offRectASS  = 88 // char *ass

	rectTypeText = 2
	rectTypeASS  = 3
)

// framePlanes extracts the decoded video frame's plane slices with the
// correct per-plane heights for the pixel format.
func framePlanes(frame avutil.Frame, pf PixelFormat, h int) (planes [][]byte, strides []int) {
	n := planeCount(pf)
	for i := 0; i < n; i++ {
		ptr := avutil.GetFrameDataPlane(frame, i)
		ls := int(avutil.GetFrameLinesizePlane(frame, i))
		if ptr == nil || ls <= 0 {
			return nil, nil
		}
		planes = append(planes, unsafe.Slice((*byte)(ptr), ls*planeHeight(pf, h, i)))
		strides = append(strides, ls)
	}
	return planes, strides
}

func planeCount(pf PixelFormat) int {
	switch pf {
	case PixYUV420P, PixYUVJ420P, PixYUV422P, PixYUVJ422P, PixYUV444P, PixYUVJ444P:
		return 3
	case PixNV12, PixNV21:
		return 2
	default:
		return 1
	}
}

func planeHeight(pf PixelFormat, h, plane int) int {
	if plane == 0 {
		return h
	}
	switch pf {
	case PixYUV420P, PixYUVJ420P, PixNV12, PixNV21:
		return (h + 1) / 2
	default:
		return h
	}
}

// audioPlanes extracts raw sample bytes from a decoded audio frame: one
// plane per channel for planar formats, a single interleaved plane
// otherwise.
func audioPlanes(frame avutil.Frame, sampleFmt int32, nbSamples, channels int) [][]byte {
	bps := bytesPerSample(sampleFmt)
	if bps == 0 || nbSamples <= 0 || channels <= 0 {
		return nil
	}
	if sampleFmtPlanar(sampleFmt) {
		if channels > 8 {
			// Channels beyond AVFrame.data live in extended_data,
			// which the bindings do not expose.
			channels = 8
		}
		planes := make([][]byte, 0, channels)
		for ch := 0; ch < channels; ch++ {
			ptr := avutil.GetFrameDataPlane(frame, ch)
			if ptr == nil {
				return nil
			}
			planes = append(planes, unsafe.Slice((*byte)(ptr), nbSamples*bps))
		}
		return planes
	}
	ptr := avutil.GetFrameDataPlane(frame, 0)
	if ptr == nil {
		return nil
	}
	return [][]byte{unsafe.Slice((*byte)(ptr), nbSamples*channels*bps)}
}

// clearStruct zeroes n bytes at p.
func clearStruct(p unsafe.Pointer, n int) {
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = 0
	}
}

// subEndDisplayMS reads AVSubtitle.end_display_time in milliseconds.
func subEndDisplayMS(sub unsafe.Pointer) uint32 {
	return *(*uint32)(unsafe.Add(sub, offSubEndDisplayTime))
}

// subRectTexts collects the raw text of every styled (ASS) or plain text
// rect in a decoded AVSubtitle. Bitmap rects are ignored; rendering DVD-style
// picture subtitles is out of scope.
func subRectTexts(sub unsafe.Pointer) []string {
	numRects := *(*uint32)(unsafe.Add(sub, offSubNumRects))
	if numRects == 0 {
		return nil
	}
	rectsPtr := *(*unsafe.Pointer)(unsafe.Add(sub, offSubRects))
	if rectsPtr == nil {
		return nil
	}

	rects := unsafe.Slice((*unsafe.Pointer)(rectsPtr), numRects)
	var texts []string
	for _, rect := range rects {
		if rect == nil {
			continue
		}
		var textPtr unsafe.Pointer
		switch *(*int32)(unsafe.Add(rect, offRectType)) {
		case rectTypeASS:
			textPtr = *(*unsafe.Pointer)(unsafe.Add(rect, offRectASS))
		case rectTypeText:
			textPtr = *(*unsafe.Pointer)(unsafe.Add(rect, offRectText))
		default:
			continue
		}
		if text := goCString(textPtr); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// goCString copies a NUL-terminated C string, capped at 64 KiB.
func goCString(ptr unsafe.Pointer) string {
	if ptr == nil {
		return ""
	}
	const maxLen = 64 * 1024
	n := 0
	for n < maxLen && *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}

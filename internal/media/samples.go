package media

import (
	"encoding/binary"
	"math"
)

// libavutil sample format values.
const (
	sampleFmtU8   = 0
	sampleFmtS16  = 1
	sampleFmtS32  = 2
	sampleFmtFlt  = 3
	sampleFmtDbl  = 4
	sampleFmtU8P  = 5
	sampleFmtS16P = 6
	sampleFmtS32P = 7
	sampleFmtFltP = 8
	sampleFmtDblP = 9
)

// sampleFmtPlanar reports whether the libavutil sample format stores one
// plane per channel.
func sampleFmtPlanar(fmt int32) bool {
	return fmt >= sampleFmtU8P && fmt <= sampleFmtDblP
}

// bytesPerSample returns the size of one sample for the format, or 0 when
// the format is not supported.
func bytesPerSample(fmt int32) int {
	switch fmt {
	case sampleFmtU8, sampleFmtU8P:
		return 1
	case sampleFmtS16, sampleFmtS16P:
		return 2
	case sampleFmtS32, sampleFmtS32P, sampleFmtFlt, sampleFmtFltP:
		return 4
	case sampleFmtDbl, sampleFmtDblP:
		return 8
	default:
		return 0
	}
}

// convertSamples turns raw decoded sample planes into float32 suitable for
// the audio sink. For planar formats planes holds one byte slice per
// channel; otherwise a single interleaved slice. Returns ok=false for
// formats we cannot convert, which the decode loop treats as a skipped
// block rather than an error.
func convertSamples(fmt int32, planes [][]byte, nbSamples, channels int) (AudioBlock, bool) {
	bps := bytesPerSample(fmt)
	if bps == 0 || nbSamples <= 0 || channels <= 0 {
		return AudioBlock{}, false
	}

	planar := sampleFmtPlanar(fmt)
	out := AudioBlock{Planar: planar, Channels: channels}

	if planar {
		if len(planes) < channels {
			return AudioBlock{}, false
		}
		out.Planes = make([][]float32, channels)
		for ch := 0; ch < channels; ch++ {
			out.Planes[ch] = decodePlane(fmt, planes[ch], nbSamples)
			if out.Planes[ch] == nil {
				return AudioBlock{}, false
			}
		}
		return out, true
	}

	if len(planes) < 1 {
		return AudioBlock{}, false
	}
	p := decodePlane(fmt, planes[0], nbSamples*channels)
	if p == nil {
		return AudioBlock{}, false
	}
	out.Planes = [][]float32{p}
	return out, true
}

// decodePlane converts n samples from one plane to float32 in [-1, 1].
func decodePlane(fmt int32, src []byte, n int) []float32 {
	bps := bytesPerSample(fmt)
	if len(src) < n*bps {
		return nil
	}
	out := make([]float32, n)
	switch fmt {
	case sampleFmtU8, sampleFmtU8P:
		for i := 0; i < n; i++ {
			out[i] = (float32(src[i]) - 128) / 128
		}
	case sampleFmtS16, sampleFmtS16P:
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(src[i*2:]))
			out[i] = float32(v) / 32768
		}
	case sampleFmtS32, sampleFmtS32P:
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(src[i*4:]))
			out[i] = float32(float64(v) / 2147483648)
		}
	case sampleFmtFlt, sampleFmtFltP:
		for i := 0; i < n; i++ {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
		}
	case sampleFmtDbl, sampleFmtDblP:
		for i := 0; i < n; i++ {
			out[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:])))
		}
	default:
		return nil
	}
	return out
}

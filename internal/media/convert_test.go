package media

import (
	"bytes"
	"image/color"
	"testing"
)

func TestConvertRGBA_YUV420P(t *testing.T) {
	// 2x2 frame, all pixels share one chroma sample.
	const w, h = 2, 2
	y := []byte{81, 81, 81, 81} // with cb=90, cr=240 this is pure-ish red
	cb := []byte{90}
	cr := []byte{240}

	dst := make([]byte, w*h*4)
	err := ConvertRGBA(PixYUV420P, w, h, [][]byte{y, cb, cr}, []int{2, 1, 1}, dst, w*4)
	if err != nil {
		t.Fatalf("ConvertRGBA: %v", err)
	}

	wantR, wantG, wantB := color.YCbCrToRGB(81, 90, 240)
	for p := 0; p < w*h; p++ {
		got := dst[p*4 : p*4+4]
		if got[0] != wantR || got[1] != wantG || got[2] != wantB || got[3] != 0xff {
			t.Fatalf("pixel %d = %v, want [%d %d %d 255]", p, got, wantR, wantG, wantB)
		}
	}
}

func TestConvertRGBA_RespectsSourceStride(t *testing.T) {
	// 2x2 luma plane padded to stride 4; padding bytes must not leak in.
	const w, h = 2, 2
	y := []byte{
		10, 20, 0xEE, 0xEE,
		30, 40, 0xEE, 0xEE,
	}
	cb := []byte{128, 0xEE}
	cr := []byte{128, 0xEE}

	dst := make([]byte, w*h*4)
	err := ConvertRGBA(PixYUV420P, w, h, [][]byte{y, cb, cr}, []int{4, 2, 2}, dst, w*4)
	if err != nil {
		t.Fatalf("ConvertRGBA: %v", err)
	}

	// Neutral chroma means gray output equal to luma after BT.601 rounding.
	for p, wantY := range []byte{10, 20, 30, 40} {
		r, g, b := color.YCbCrToRGB(wantY, 128, 128)
		got := dst[p*4 : p*4+4]
		if got[0] != r || got[1] != g || got[2] != b {
			t.Fatalf("pixel %d = %v, want [%d %d %d]", p, got, r, g, b)
		}
	}
}

func TestConvertRGBA_BGRA(t *testing.T) {
	const w, h = 1, 1
	src := []byte{1, 2, 3, 4} // B G R A
	dst := make([]byte, 4)
	if err := ConvertRGBA(PixBGRA, w, h, [][]byte{src}, []int{4}, dst, 4); err != nil {
		t.Fatalf("ConvertRGBA: %v", err)
	}
	if !bytes.Equal(dst, []byte{3, 2, 1, 4}) {
		t.Errorf("dst = %v, want [3 2 1 4]", dst)
	}
}

func TestConvertRGBA_RGB24_OpaqueAlpha(t *testing.T) {
	const w, h = 2, 1
	src := []byte{1, 2, 3, 4, 5, 6}
	dst := make([]byte, 8)
	if err := ConvertRGBA(PixRGB24, w, h, [][]byte{src}, []int{6}, dst, 8); err != nil {
		t.Fatalf("ConvertRGBA: %v", err)
	}
	want := []byte{1, 2, 3, 0xff, 4, 5, 6, 0xff}
	if !bytes.Equal(dst, want) {
		t.Errorf("dst = %v, want %v", dst, want)
	}
}

func TestConvertRGBA_NV12(t *testing.T) {
	const w, h = 2, 2
	y := []byte{100, 100, 100, 100}
	uv := []byte{110, 130} // interleaved U, V
	dst := make([]byte, w*h*4)
	if err := ConvertRGBA(PixNV12, w, h, [][]byte{y, uv}, []int{2, 2}, dst, w*4); err != nil {
		t.Fatalf("ConvertRGBA: %v", err)
	}
	r, g, b := color.YCbCrToRGB(100, 110, 130)
	if dst[0] != r || dst[1] != g || dst[2] != b {
		t.Errorf("pixel 0 = %v, want [%d %d %d]", dst[:4], r, g, b)
	}
}

func TestConvertRGBA_UnknownFormat(t *testing.T) {
	dst := make([]byte, 4)
	if err := ConvertRGBA(PixelFormat(999), 1, 1, [][]byte{{0}}, []int{1}, dst, 4); err == nil {
		t.Error("expected error for unknown pixel format")
	}
}

func TestConvertRGBA_Gray8(t *testing.T) {
	src := []byte{0, 128, 255}
	dst := make([]byte, 12)
	if err := ConvertRGBA(PixGray8, 3, 1, [][]byte{src}, []int{3}, dst, 12); err != nil {
		t.Fatalf("ConvertRGBA: %v", err)
	}
	want := []byte{0, 0, 0, 255, 128, 128, 128, 255, 255, 255, 255, 255}
	if !bytes.Equal(dst, want) {
		t.Errorf("dst = %v, want %v", dst, want)
	}
}

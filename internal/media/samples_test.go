package media

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestConvertSamples_S16Interleaved(t *testing.T) {
	// Two samples, two channels: max positive, min negative, zero, half.
	src := make([]byte, 8)
	binary.LittleEndian.PutUint16(src[0:], uint16(int16(32767)))
	minS16 := int16(-32768)
	binary.LittleEndian.PutUint16(src[2:], uint16(minS16))
	binary.LittleEndian.PutUint16(src[4:], 0)
	binary.LittleEndian.PutUint16(src[6:], uint16(int16(16384)))

	block, ok := convertSamples(sampleFmtS16, [][]byte{src}, 2, 2)
	if !ok {
		t.Fatal("convertSamples returned !ok")
	}
	if block.Planar {
		t.Error("S16 should not be planar")
	}
	if len(block.Planes) != 1 || len(block.Planes[0]) != 4 {
		t.Fatalf("unexpected plane shape: %d planes", len(block.Planes))
	}

	got := block.Planes[0]
	if got[0] < 0.999 || got[0] > 1.0 {
		t.Errorf("sample 0 = %v, want ~1.0", got[0])
	}
	if got[1] != -1.0 {
		t.Errorf("sample 1 = %v, want -1.0", got[1])
	}
	if got[2] != 0 {
		t.Errorf("sample 2 = %v, want 0", got[2])
	}
	if got[3] != 0.5 {
		t.Errorf("sample 3 = %v, want 0.5", got[3])
	}
}

func TestConvertSamples_FltPlanar(t *testing.T) {
	left := make([]byte, 8)
	right := make([]byte, 8)
	binary.LittleEndian.PutUint32(left[0:], math.Float32bits(0.25))
	binary.LittleEndian.PutUint32(left[4:], math.Float32bits(-0.25))
	binary.LittleEndian.PutUint32(right[0:], math.Float32bits(0.75))
	binary.LittleEndian.PutUint32(right[4:], math.Float32bits(-0.75))

	block, ok := convertSamples(sampleFmtFltP, [][]byte{left, right}, 2, 2)
	if !ok {
		t.Fatal("convertSamples returned !ok")
	}
	if !block.Planar {
		t.Error("FLTP should be planar")
	}
	if block.Planes[0][0] != 0.25 || block.Planes[1][0] != 0.75 {
		t.Errorf("first samples = %v, %v; want 0.25, 0.75",
			block.Planes[0][0], block.Planes[1][0])
	}
	if block.Planes[0][1] != -0.25 || block.Planes[1][1] != -0.75 {
		t.Errorf("second samples = %v, %v; want -0.25, -0.75",
			block.Planes[0][1], block.Planes[1][1])
	}
}

func TestConvertSamples_U8(t *testing.T) {
	src := []byte{128, 255, 0}
	block, ok := convertSamples(sampleFmtU8, [][]byte{src}, 3, 1)
	if !ok {
		t.Fatal("convertSamples returned !ok")
	}
	got := block.Planes[0]
	if got[0] != 0 {
		t.Errorf("sample 0 = %v, want 0", got[0])
	}
	if got[1] <= 0.99 {
		t.Errorf("sample 1 = %v, want ~1", got[1])
	}
	if got[2] != -1 {
		t.Errorf("sample 2 = %v, want -1", got[2])
	}
}

func TestConvertSamples_UnknownFormat(t *testing.T) {
	if _, ok := convertSamples(99, [][]byte{{0, 0}}, 1, 1); ok {
		t.Error("expected !ok for unknown sample format")
	}
}

func TestConvertSamples_ShortBuffer(t *testing.T) {
	if _, ok := convertSamples(sampleFmtS16, [][]byte{{0, 0}}, 2, 2); ok {
		t.Error("expected !ok for truncated sample plane")
	}
}

func TestConvertSamples_MissingPlanes(t *testing.T) {
	if _, ok := convertSamples(sampleFmtFltP, [][]byte{make([]byte, 8)}, 2, 2); ok {
		t.Error("expected !ok when planar input lacks channel planes")
	}
}

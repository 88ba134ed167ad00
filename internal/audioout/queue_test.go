package audioout

import (
	"math"
	"testing"
)

func TestQueue_StreamReturnsPushedSamples(t *testing.T) {
	q := &queue{}
	q.push([][2]float64{{0.1, 0.2}, {0.3, 0.4}})

	out := make([][2]float64, 2)
	n, ok := q.Stream(out)
	if !ok || n != 2 {
		t.Fatalf("Stream = (%d, %v), want (2, true)", n, ok)
	}
	if out[0] != [2]float64{0.1, 0.2} || out[1] != [2]float64{0.3, 0.4} {
		t.Errorf("samples = %v, want pushed values", out)
	}
}

func TestQueue_UnderrunPadsSilence(t *testing.T) {
	q := &queue{}
	q.push([][2]float64{{1, 1}})

	out := make([][2]float64, 4)
	n, ok := q.Stream(out)
	if !ok || n != 4 {
		t.Fatalf("Stream = (%d, %v), want (4, true)", n, ok)
	}
	if out[0] != [2]float64{1, 1} {
		t.Errorf("out[0] = %v, want {1,1}", out[0])
	}
	for i := 1; i < 4; i++ {
		if out[i] != ([2]float64{}) {
			t.Errorf("out[%d] = %v, want silence", i, out[i])
		}
	}
}

func TestQueue_ClearDropsQueued(t *testing.T) {
	q := &queue{}
	q.push(make([][2]float64, 100))
	q.clear()
	if q.len() != 0 {
		t.Errorf("len = %d after clear, want 0", q.len())
	}
}

func TestQueue_CloseEndsAfterDrain(t *testing.T) {
	q := &queue{}
	q.push([][2]float64{{0.5, 0.5}})
	q.close()

	out := make([][2]float64, 4)
	n, ok := q.Stream(out)
	if n != 1 || !ok {
		t.Fatalf("Stream = (%d, %v), want (1, true) for final partial read", n, ok)
	}

	n, ok = q.Stream(out)
	if n != 0 || ok {
		t.Errorf("Stream after drain = (%d, %v), want (0, false)", n, ok)
	}
}

func TestQueue_PushAfterCloseIgnored(t *testing.T) {
	q := &queue{}
	q.close()
	q.push([][2]float64{{1, 1}})
	if q.len() != 0 {
		t.Errorf("len = %d, want 0 after push-on-closed", q.len())
	}
}

func TestQueue_CompactionKeepsOrder(t *testing.T) {
	q := &queue{}
	for i := 0; i < 50; i++ {
		q.push([][2]float64{{float64(i), 0}})
		out := make([][2]float64, 1)
		if n, ok := q.Stream(out); n != 1 || !ok {
			t.Fatalf("Stream = (%d, %v) at %d", n, ok, i)
		}
		if out[0][0] != float64(i) {
			t.Fatalf("sample %d = %v, want %d", i, out[0][0], i)
		}
	}
}

func TestToStereo(t *testing.T) {
	if got := toStereo([]float32{0.5}); got != [2]float64{0.5, 0.5} {
		t.Errorf("mono = %v, want duplicated", got)
	}
	if got := toStereo([]float32{0.25, 0.75, 0.1}); got != [2]float64{0.25, 0.75} {
		t.Errorf("multichannel = %v, want first two channels", got)
	}
}

func TestLevelToVolume(t *testing.T) {
	if got := levelToVolume(1); got != 0 {
		t.Errorf("levelToVolume(1) = %v, want 0", got)
	}
	if got := levelToVolume(0.5); got != -1 {
		t.Errorf("levelToVolume(0.5) = %v, want -1", got)
	}
	if got := levelToVolume(0.25); math.Abs(got+2) > 1e-9 {
		t.Errorf("levelToVolume(0.25) = %v, want -2", got)
	}
}

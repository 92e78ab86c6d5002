package buffer

import (
	"sync"
	"testing"
)

func requireSamples(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRingSnapshotBeforeFull(t *testing.T) {
	r := NewRing(4)
	r.Write([]float64{1, 2})
	requireSamples(t, r.Snapshot(nil), []float64{0, 0, 1, 2})
}

func TestRingWrapsChronologically(t *testing.T) {
	r := NewRing(4)
	r.Write([]float64{1, 2, 3})
	r.Write([]float64{4, 5, 6})
	requireSamples(t, r.Snapshot(nil), []float64{3, 4, 5, 6})

	if r.Written() != 6 {
		t.Fatalf("Written() = %d, want 6", r.Written())
	}
}

func TestRingWriteLongerThanSize(t *testing.T) {
	r := NewRing(3)
	r.Write([]float64{9})
	r.Write([]float64{1, 2, 3, 4, 5})
	requireSamples(t, r.Snapshot(nil), []float64{3, 4, 5})
}

func TestRingSnapshotIsCopy(t *testing.T) {
	r := NewRing(2)
	r.Write([]float64{1, 2})
	snap := r.Snapshot(nil)
	snap[0] = 100
	requireSamples(t, r.Snapshot(nil), []float64{1, 2})
}

func TestRingSnapshotReusesDst(t *testing.T) {
	r := NewRing(4)
	dst := make([]float64, 0, 8)
	out := r.Snapshot(dst)
	if cap(out) != 8 {
		t.Fatalf("cap = %d, want 8", cap(out))
	}
}

func TestRingReset(t *testing.T) {
	r := NewRing(2)
	r.Write([]float64{1, 2, 3})
	r.Reset()
	requireSamples(t, r.Snapshot(nil), []float64{0, 0})
	if r.Written() != 0 {
		t.Fatalf("Written() = %d, want 0", r.Written())
	}
}

func TestRingZeroSize(t *testing.T) {
	r := NewRing(0)
	if r.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", r.Size())
	}
}

func TestRingConcurrentWriteAndSnapshot(t *testing.T) {
	r := NewRing(64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		chunk := make([]float64, 16)
		for i := 0; i < 200; i++ {
			for j := range chunk {
				chunk[j] = float64(i)
			}
			r.Write(chunk)
		}
	}()

	dst := make([]float64, 0, 64)
	for i := 0; i < 200; i++ {
		dst = r.Snapshot(dst)
	}
	wg.Wait()

	requireSamples(t, r.Snapshot(nil)[48:], []float64{199, 199, 199, 199, 199, 199, 199, 199, 199, 199, 199, 199, 199, 199, 199, 199})
}

package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireWithinPercent fails t unless got lies within pct percent of want.
func RequireWithinPercent(t *testing.T, got, want, pct float64) {
	t.Helper()
	if want == 0 {
		t.Fatalf("RequireWithinPercent: want must be non-zero")
	}
	rel := math.Abs(got-want) / math.Abs(want) * 100
	if math.IsNaN(rel) || rel > pct {
		t.Fatalf("got %v, want %v within %v%% (off by %.3f%%)", got, want, pct, rel)
	}
}

// RequireNear fails t if |got-want| > eps.
func RequireNear(t *testing.T, got, want, eps float64) {
	t.Helper()
	if diff := math.Abs(got - want); math.IsNaN(diff) || diff > eps {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, diff, eps)
	}
}

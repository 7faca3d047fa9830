package math

import (
	gomath "math"
	"testing"
)

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k int
		want float64
	}{
		{0, 0, 1},
		{1, 0, 1},
		{1, 1, 1},
		{4, 2, 6},
		{8, 3, 56},
		{8, 8, 1},
		{5, -1, 0},
		{5, 6, 0},
		{30, 15, 155117520},
	}
	for _, tt := range tests {
		if got := Binomial(tt.n, tt.k); got != tt.want {
			t.Errorf("Binomial(%d, %d) = %v, want %v", tt.n, tt.k, got, tt.want)
		}
	}
}

func TestBernsteinPartitionOfUnity(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for _, u := range []float64{0, 0.1, 0.5, 0.77, 1} {
			sum := 0.0
			for k := 0; k <= n; k++ {
				sum += Bernstein(n, k, u)
			}
			if gomath.Abs(sum-1) > 1e-12 {
				t.Errorf("n=%d u=%v: sum of basis = %v, want 1", n, u, sum)
			}
		}
	}
}

func TestBernsteinEndpoints(t *testing.T) {
	// At u=0 only k=0 is non-zero, at u=1 only k=n.
	n := 3
	for k := 0; k <= n; k++ {
		at0 := Bernstein(n, k, 0)
		at1 := Bernstein(n, k, 1)
		want0, want1 := 0.0, 0.0
		if k == 0 {
			want0 = 1
		}
		if k == n {
			want1 = 1
		}
		if at0 != want0 || at1 != want1 {
			t.Errorf("k=%d: B(0)=%v B(1)=%v, want %v %v", k, at0, at1, want0, want1)
		}
	}
}

func TestBernsteinExtrapolates(t *testing.T) {
	// Outside [0,1] the basis is still defined and still sums to one.
	for _, u := range []float64{-0.5, 1.5} {
		sum := 0.0
		for k := 0; k <= 2; k++ {
			b := Bernstein(2, k, u)
			if gomath.IsNaN(b) {
				t.Fatalf("Bernstein(2, %d, %v) is NaN", k, u)
			}
			sum += b
		}
		if gomath.Abs(sum-1) > 1e-12 {
			t.Errorf("u=%v: sum = %v, want 1", u, sum)
		}
	}
	// B(1,0,u) = 1-u.
	if got := Bernstein(1, 0, 2); got != -1 {
		t.Errorf("Bernstein(1, 0, 2) = %v, want -1", got)
	}
}

func TestBernsteinBasis(t *testing.T) {
	dst := BernsteinBasis(2, 0.5, nil)
	want := []float64{0.25, 0.5, 0.25}
	if len(dst) != len(want) {
		t.Fatalf("len = %d, want %d", len(dst), len(want))
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("basis[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	// Reuses a large enough buffer.
	buf := make([]float64, 8)
	out := BernsteinBasis(1, 0.25, buf)
	if &out[0] != &buf[0] {
		t.Error("expected dst to be reused")
	}
	if len(out) != 2 {
		t.Errorf("len = %d, want 2", len(out))
	}
}

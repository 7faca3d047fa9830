package math

// Binomial returns n choose k as a float64. It uses the multiplicative form so
// it does not overflow the way a factorial ratio would for larger n.
func Binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	c := 1.0
	for i := 1; i <= k; i++ {
		c = c * float64(n-k+i) / float64(i)
	}
	return c
}

// Bernstein evaluates the k-th Bernstein polynomial of degree n at u.
// u is not restricted to [0,1]; values outside extrapolate.
func Bernstein(n, k int, u float64) float64 {
	if k < 0 || k > n {
		return 0
	}
	return Binomial(n, k) * powi(1-u, n-k) * powi(u, k)
}

// BernsteinBasis fills dst with the n+1 Bernstein weights of degree n at u and
// returns it. dst is reallocated if it is too short.
func BernsteinBasis(n int, u float64, dst []float64) []float64 {
	if cap(dst) < n+1 {
		dst = make([]float64, n+1)
	}
	dst = dst[:n+1]
	for k := 0; k <= n; k++ {
		dst[k] = Bernstein(n, k, u)
	}
	return dst
}

// powi raises x to a non-negative integer power. 0^0 is 1.
func powi(x float64, e int) float64 {
	r := 1.0
	for ; e > 0; e-- {
		r *= x
	}
	return r
}

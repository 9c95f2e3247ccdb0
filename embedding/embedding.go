// Package embedding provides the fixed word-vector space and the similarity
// primitives behind the Petals tool-trigger gate: text embedding with a
// token-average fallback, cosine similarity, and centroid computation.
package embedding

import (
	"math"
	"strings"
)

// Space is a fixed embedding resource: token to vector lookup with a stable
// dimensionality. Lookups must be safe for concurrent use.
type Space interface {
	Lookup(token string) ([]float32, bool)
	Dim() int
}

// Vector embeds text in s. It first tries a whole-string lookup; failing
// that, it lowercases the text, splits on whitespace, and averages the
// vectors of the tokens that resolve. Returns false when nothing resolves.
// Pure function of its inputs; caching is the caller's concern.
func Vector(s Space, text string) ([]float32, bool) {
	if v, ok := s.Lookup(text); ok {
		return v, true
	}
	sum := make([]float32, s.Dim())
	resolved := 0
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		v, ok := s.Lookup(tok)
		if !ok {
			continue
		}
		for i := range sum {
			sum[i] += v[i]
		}
		resolved++
	}
	if resolved == 0 {
		return nil, false
	}
	inv := float32(1) / float32(resolved)
	for i := range sum {
		sum[i] *= inv
	}
	return sum, true
}

// Cosine returns the normalized dot product of a and b. A zero-magnitude
// vector or a length mismatch yields 0, not an error.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Mean returns the elementwise mean of vs, or nil for an empty slice. All
// vectors must share one length; shorter inputs are a caller bug and are
// truncated to the first vector's length rather than panicking.
func Mean(vs [][]float32) []float32 {
	if len(vs) == 0 {
		return nil
	}
	out := make([]float32, len(vs[0]))
	for _, v := range vs {
		n := min(len(v), len(out))
		for i := 0; i < n; i++ {
			out[i] += v[i]
		}
	}
	inv := float32(1) / float32(len(vs))
	for i := range out {
		out[i] *= inv
	}
	return out
}

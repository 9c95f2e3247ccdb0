package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func space() *Lexicon {
	return NewLexicon(2, map[string][]float32{
		"sun":      {1, 0},
		"moon":     {0, 1},
		"new york": {0.5, 0.5},
	})
}

func TestVector_WholeStringLookupWins(t *testing.T) {
	// A multi-word entry is matched before any token splitting happens.
	v, ok := Vector(space(), "new york")
	require.True(t, ok)
	assert.Equal(t, []float32{0.5, 0.5}, v)
}

func TestVector_TokenAverageFallback(t *testing.T) {
	v, ok := Vector(space(), "sun moon")
	require.True(t, ok)
	assert.InDelta(t, 0.5, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.5, float64(v[1]), 1e-6)
}

func TestVector_LowercasesTokens(t *testing.T) {
	v, ok := Vector(space(), "SUN")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0}, v)
}

func TestVector_SkipsUnknownTokens(t *testing.T) {
	// Unknown tokens do not dilute the average of the ones that resolve.
	v, ok := Vector(space(), "bright sun xyzzy")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0}, v)
}

func TestVector_NothingResolves(t *testing.T) {
	tests := []string{"xyzzy plugh", "", "   "}
	for _, text := range tests {
		v, ok := Vector(space(), text)
		assert.False(t, ok, "%q", text)
		assert.Nil(t, v)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2}, []float32{1, 2}, 1},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"both empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMean(t *testing.T) {
	got := Mean([][]float32{{1, 0}, {0, 1}, {1, 1}})
	require.Len(t, got, 2)
	assert.InDelta(t, 2.0/3.0, float64(got[0]), 1e-6)
	assert.InDelta(t, 2.0/3.0, float64(got[1]), 1e-6)

	assert.Nil(t, Mean(nil))
	assert.Equal(t, []float32{1, 2}, Mean([][]float32{{1, 2}}))
}

package embedding

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Lexicon is an in-memory Space backed by a pretrained word-vector file in
// the common text format: one entry per line, token followed by its
// components, whitespace-separated. An optional "count dim" header line is
// skipped. The map is built once at load time and read-only afterwards, so
// lookups need no synchronization.
type Lexicon struct {
	dim  int
	vecs map[string][]float32
}

// NewLexicon builds a Lexicon directly from vectors; used by tests and hosts
// that ship their embedding table in another format. Vectors of the wrong
// length are dropped.
func NewLexicon(dim int, vecs map[string][]float32) *Lexicon {
	l := &Lexicon{dim: dim, vecs: make(map[string][]float32, len(vecs))}
	for tok, v := range vecs {
		if len(v) == dim {
			l.vecs[tok] = v
		}
	}
	return l
}

// Load reads a word-vector file from r. The dimensionality is fixed by the
// first vector line; a later line with a different component count is an
// error, as is an empty input.
func Load(r io.Reader) (*Lexicon, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	l := &Lexicon{vecs: make(map[string][]float32)}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		// "count dim" header emitted by word2vec-style exporters.
		if lineNo == 1 && len(fields) == 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue
			}
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: token without components", lineNo)
		}
		vec := make([]float32, len(fields)-1)
		for i, f := range fields[1:] {
			val, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: component %d: %w", lineNo, i, err)
			}
			vec[i] = float32(val)
		}
		if l.dim == 0 {
			l.dim = len(vec)
		} else if len(vec) != l.dim {
			return nil, fmt.Errorf("line %d: got %d components, want %d", lineNo, len(vec), l.dim)
		}
		l.vecs[fields[0]] = vec
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(l.vecs) == 0 {
		return nil, fmt.Errorf("no vectors found")
	}
	return l, nil
}

// Open loads a word-vector file from disk.
func Open(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Lookup implements Space.
func (l *Lexicon) Lookup(token string) ([]float32, bool) {
	v, ok := l.vecs[token]
	return v, ok
}

// Dim implements Space.
func (l *Lexicon) Dim() int { return l.dim }

// Len reports the number of tokens in the lexicon.
func (l *Lexicon) Len() int { return len(l.vecs) }

var _ Space = (*Lexicon)(nil)

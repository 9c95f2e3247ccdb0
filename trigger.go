package petals

import (
	"sync"

	"github.com/aadishiv23/petals/embedding"
)

// DefaultThreshold is the cosine-similarity gate for tool triggering.
// Empirically, exemplar-centroid similarity for on-topic phrasings lands well
// above 0.8 while chit-chat stays below 0.7; tune per caller via WithThreshold.
const DefaultThreshold = 0.78

// Evaluator decides, via embedding similarity against per-tool exemplar
// centroids, whether a message warrants invoking a tool at all — without
// running full model-side function calling on every turn.
//
// Prototype vectors are memoized per tool id for the process lifetime.
// Evaluation itself is pure computation and safe under concurrent invocation;
// the cache serializes writes so concurrent first uses never interleave a
// half-computed centroid (a stale read followed by an identical recompute is
// acceptable, since computation is deterministic).
type Evaluator struct {
	space     embedding.Space
	exemplars Exemplars
	threshold float64
	eager     bool

	mu     sync.Mutex
	protos map[ToolID]protoEntry
}

// protoEntry memoizes one centroid, including the "no exemplar embeds" case
// so it is not recomputed on every call.
type protoEntry struct {
	vec []float32
	ok  bool
}

// NewEvaluator creates an Evaluator over the given embedding space and
// exemplar set. The exemplar set is read-only configuration: a tool id absent
// from it can never trigger through this evaluator, which is by design.
func NewEvaluator(space embedding.Space, exemplars Exemplars, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		space:     space,
		exemplars: exemplars,
		threshold: DefaultThreshold,
		protos:    make(map[ToolID]protoEntry),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.eager {
		for _, id := range AllToolIDs {
			e.Prototype(id)
		}
	}
	return e
}

// Threshold returns the evaluator's trigger threshold.
func (e *Evaluator) Threshold() float64 { return e.threshold }

// Prototype returns the memoized centroid embedding of id's exemplars: the
// elementwise mean over every exemplar that embeds successfully. Returns
// false when id has no exemplars or none of them embed.
func (e *Evaluator) Prototype(id ToolID) ([]float32, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.protos[id]; ok {
		return p.vec, p.ok
	}
	var vecs [][]float32
	for _, phrase := range e.exemplars[id] {
		if v, ok := embedding.Vector(e.space, phrase); ok {
			vecs = append(vecs, v)
		}
	}
	p := protoEntry{vec: embedding.Mean(vecs), ok: len(vecs) > 0}
	e.protos[id] = p
	return p.vec, p.ok
}

// ShouldTrigger embeds message and compares it against proto at threshold.
// A message that fails to embed never triggers; it is not an error.
func (e *Evaluator) ShouldTrigger(message string, proto []float32, threshold float64) bool {
	v, ok := embedding.Vector(e.space, message)
	if !ok {
		return false
	}
	return embedding.Cosine(v, proto) >= threshold
}

// ShouldTriggerTool reports whether message clears the evaluator's threshold
// against id's prototype.
func (e *Evaluator) ShouldTriggerTool(message string, id ToolID) bool {
	proto, ok := e.Prototype(id)
	if !ok {
		return false
	}
	return e.ShouldTrigger(message, proto, e.threshold)
}

// ShouldUseAnyTool reports whether any known tool's prototype matches
// message, short-circuiting on the first match in AllToolIDs order.
func (e *Evaluator) ShouldUseAnyTool(message string) bool {
	v, ok := embedding.Vector(e.space, message)
	if !ok {
		return false
	}
	for _, id := range AllToolIDs {
		proto, ok := e.Prototype(id)
		if !ok {
			continue
		}
		if embedding.Cosine(v, proto) >= e.threshold {
			return true
		}
	}
	return false
}

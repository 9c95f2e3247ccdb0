// Package petals implements the tool-invocation pipeline of the Petals
// assistant: deciding whether a user message warrants a tool at all,
// tolerantly parsing the heterogeneous call encodings different model
// backends emit, decoding them into a closed typed-call union, dispatching to
// capability-gated executors, and rendering structured results as
// conversation text.
//
// # Pipeline
//
// user text → Evaluator (embedding-similarity gate) → model → Normalizer
// (raw text → canonical {name, arguments} envelope) → Decode (envelope →
// TypedCall) → Registry.Dispatch (TypedCall → executor → Result) → Renderer
// (Result → displayable text). Pipeline ties the stages together and owns the
// fallback behavior: a turn always gets some reply, and parse or decode
// trouble degrades to showing the model's raw text.
//
// # Key concepts
//
//   - One enumeration: ToolID is defined once and used by the normalizer,
//     decoder, and registry alike, so the layers cannot drift.
//   - Tolerant in, canonical out: the Normalizer accepts sentinel-wrapped,
//     tag-wrapped, and bare-JSON calls with several field spellings, and
//     everything downstream sees only the canonical envelope.
//   - Capability surface: executors implement Tool (Descriptor + Execute);
//     the registry is an explicit, injectable instance owned by the host's
//     composition root, not a process-wide singleton.
//
// See Normalizer, Decode, Registry, Evaluator, and Pipeline for the stages,
// and the toolkit package for the built-in tool families.
package petals

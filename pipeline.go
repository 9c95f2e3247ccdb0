package petals

import (
	"context"

	"github.com/rs/zerolog"
)

// Pipeline wires the trigger gate, normalizer, decoder, dispatcher, and
// renderer into the turn-handling flow:
//
//	user text → ShouldUseTool (gate) → model → HandleModelOutput → reply
//
// The conversation always receives some reply. Normalization and decode
// failures are recovered here into the model's raw text instead of aborting
// the turn; dispatch and execution failures are rendered as user-facing error
// strings, never re-thrown. Every recovered failure is logged so the host's
// telemetry layer can observe it.
type Pipeline struct {
	eval       *Evaluator
	norm       *Normalizer
	reg        *Registry
	ren        *Renderer
	log        zerolog.Logger
	strictArgs bool
}

// NewPipeline assembles a Pipeline. All collaborators are explicit and
// injectable; tests construct fresh instances instead of sharing process-wide
// state.
func NewPipeline(eval *Evaluator, norm *Normalizer, reg *Registry, ren *Renderer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		eval: eval,
		norm: norm,
		reg:  reg,
		ren:  ren,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ShouldUseTool is the pre-model gate: it reports whether message looks like
// a tool request at all. When false, the caller forwards the message to the
// model without any function-calling machinery.
func (p *Pipeline) ShouldUseTool(message string) bool {
	return p.eval.ShouldUseAnyTool(message)
}

// Reply is what a conversation turn receives back from HandleModelOutput.
type Reply struct {
	Text     string
	ToolUsed ToolID  // zero when the model text passed through untouched
	Result   *Result // nil unless a call was dispatched
}

// HandleModelOutput runs raw model output through normalize → decode →
// dispatch → render and always returns a displayable reply.
func (p *Pipeline) HandleModelOutput(ctx context.Context, raw string) Reply {
	env, err := p.norm.Normalize(raw)
	if err != nil {
		p.log.Warn().Err(err).Msg("malformed tool call, falling back to raw text")
		return Reply{Text: raw}
	}
	if env == nil {
		return Reply{Text: raw}
	}

	if p.strictArgs {
		if id, ok := ParseToolID(env.Name); ok {
			if verr := p.reg.ValidateArguments(id, env.Arguments); verr != nil {
				p.log.Warn().Err(verr).Str("tool", env.Name).Msg("argument validation failed, falling back to raw text")
				return Reply{Text: raw}
			}
		}
	}

	call, err := Decode(env)
	if err != nil {
		p.log.Warn().Err(err).Str("tool", env.Name).Msg("argument decode failed, falling back to raw text")
		return Reply{Text: raw}
	}

	res := p.reg.Dispatch(ctx, call)
	res.CallID = env.ID
	if res.Err != nil {
		p.log.Error().Err(res.Err).Str("tool", env.Name).Msg("tool dispatch failed")
	}
	return Reply{
		Text:     p.ren.Render(res),
		ToolUsed: call.ToolID(),
		Result:   &res,
	}
}

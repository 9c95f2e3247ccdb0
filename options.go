package petals

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type registryOptions struct {
	maxConcurrency int
	recoverPanics  bool
	onBefore       func(context.Context, TypedCall)
	onAfter        func(context.Context, TypedCall, Result, time.Duration)
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

// WithMaxConcurrency limits concurrent dispatches (semaphore). Zero or
// negative disables the limit; the default is unlimited.
func WithMaxConcurrency(n int) RegistryOption {
	return func(o *registryOptions) {
		o.maxConcurrency = n
	}
}

// WithRecoverPanics controls panic recovery in Dispatch (enabled by default;
// recovered panics come back as ExecutionError).
func WithRecoverPanics(enable bool) RegistryOption {
	return func(o *registryOptions) {
		o.recoverPanics = enable
	}
}

// WithOnBeforeDispatch sets a hook called before each execution.
func WithOnBeforeDispatch(fn func(context.Context, TypedCall)) RegistryOption {
	return func(o *registryOptions) {
		o.onBefore = fn
	}
}

// WithOnAfterDispatch sets a hook called after each execution with the final
// result and duration, including failures and recovered panics.
func WithOnAfterDispatch(fn func(context.Context, TypedCall, Result, time.Duration)) RegistryOption {
	return func(o *registryOptions) {
		o.onAfter = fn
	}
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithSentinels overrides the sentinel begin/end markers.
func WithSentinels(begin, end string) NormalizerOption {
	return func(n *Normalizer) {
		n.sentinelBegin = begin
		n.sentinelEnd = end
	}
}

// WithCallTags overrides the tag open/close markers.
func WithCallTags(open, close string) NormalizerOption {
	return func(n *Normalizer) {
		n.tagOpen = open
		n.tagClose = close
	}
}

// WithIDGenerator overrides envelope id generation (tests use fixed ids).
func WithIDGenerator(fn func() string) NormalizerOption {
	return func(n *Normalizer) {
		n.newID = fn
	}
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithThreshold overrides the default trigger threshold.
func WithThreshold(t float64) EvaluatorOption {
	return func(e *Evaluator) {
		e.threshold = t
	}
}

// WithEagerPrototypes precomputes every prototype at construction instead of
// on first use. Purely an optimization; lazy and eager paths are observably
// identical.
func WithEagerPrototypes() EvaluatorOption {
	return func(e *Evaluator) {
		e.eager = true
	}
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets the pipeline's logger (default is a no-op logger).
func WithPipelineLogger(logger zerolog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.log = logger
	}
}

// WithStrictArguments validates envelope arguments against the registered
// descriptor schema before decoding. Off by default: the decoder is tolerant
// by design, and strict mode is for hosts that prefer a raw-text fallback
// over best-effort execution of dubious arguments.
func WithStrictArguments() PipelineOption {
	return func(p *Pipeline) {
		p.strictArgs = true
	}
}

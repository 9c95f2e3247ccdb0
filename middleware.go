package petals

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Middleware wraps a Tool with cross-cutting behavior (logging, recovery).
type Middleware func(Tool) Tool

// WithLogging returns a middleware that logs dispatch start, outcome, and
// duration for every execution of the wrapped tool.
func WithLogging(logger zerolog.Logger) Middleware {
	return func(next Tool) Tool {
		return &loggingTool{toolBase: toolBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that recovers executor panics into
// ExecutionError. Registry dispatch already recovers by default; use this
// when executing tools outside a Registry.
func WithRecovery() Middleware {
	return func(next Tool) Tool {
		return &recoveryTool{toolBase{next: next}}
	}
}

// toolBase delegates Descriptor to the wrapped Tool; embedded by middleware wrappers.
type toolBase struct{ next Tool }

func (b *toolBase) Descriptor() Descriptor { return b.next.Descriptor() }

type loggingTool struct {
	toolBase
	logger zerolog.Logger
}

func (m *loggingTool) Execute(ctx context.Context, call TypedCall) (Result, error) {
	id := m.next.Descriptor().ID
	m.logger.Debug().Str("tool", string(id)).Msg("tool start")
	start := time.Now()
	res, err := m.next.Execute(ctx, call)
	dur := time.Since(start)
	if err != nil {
		m.logger.Error().Str("tool", string(id)).Dur("duration", dur).Err(err).Msg("tool error")
		return res, err
	}
	m.logger.Info().
		Str("tool", string(id)).
		Str("status", string(res.Status)).
		Dur("duration", dur).
		Msg("tool end")
	return res, nil
}

type recoveryTool struct{ toolBase }

func (r *recoveryTool) Execute(ctx context.Context, call TypedCall) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{}
			err = &ExecutionError{Tool: r.next.Descriptor().ID, Err: &panicError{p: p}}
		}
	}()
	return r.next.Execute(ctx, call)
}

// Use stores the given middlewares and reapplies them from scratch to all
// registered tools (onion order: first middleware is outermost). Tools
// registered after Use also get the chain. Calling Use again replaces the
// chain and rewraps from raw tools, so nothing is ever double-wrapped.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for id, e := range r.entries {
		t := e.raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			t = middlewares[i](t)
		}
		e.tool = t
		r.entries[id] = e
	}
}

package petals

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, reg *Registry, opts ...PipelineOption) *Pipeline {
	t.Helper()
	eval := NewEvaluator(testSpace(), canvasExemplars())
	norm := NewNormalizer(WithIDGenerator(func() string { return "call-1" }))
	return NewPipeline(eval, norm, reg, NewRenderer(), opts...)
}

func TestPipeline_PlainTextPassesThrough(t *testing.T) {
	p := newTestPipeline(t, NewRegistry())

	reply := p.HandleModelOutput(context.Background(), "Hello, how are you?")
	assert.Equal(t, "Hello, how are you?", reply.Text)
	assert.Empty(t, reply.ToolUsed)
	assert.Nil(t, reply.Result)
}

func TestPipeline_DispatchesWrappedCall(t *testing.T) {
	reg := NewRegistry()
	var got TypedCall
	reg.Register(NewTool(calendarDesc(), func(ctx context.Context, call TypedCall) (Result, error) {
		got = call
		return Success([]map[string]any{{"title": "Office hours"}}), nil
	}))
	p := newTestPipeline(t, reg)

	reply := p.HandleModelOutput(context.Background(),
		`<tool_call>{"name":"petalCalendarFetchEventsTool","arguments":{}}</tool_call>`)

	require.NotNil(t, reply.Result)
	assert.Equal(t, ToolCalendarFetchEvents, reply.ToolUsed)
	assert.Equal(t, "call-1", reply.Result.CallID)
	assert.Equal(t, StatusSuccess, reply.Result.Status)
	assert.Equal(t, &CalendarFetchCall{}, got)
	assert.Contains(t, reply.Text, "Office hours")
}

func TestPipeline_MalformedCallFallsBackToRawText(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPipeline(t, NewRegistry(), WithPipelineLogger(zerolog.New(&buf)))

	raw := `<tool_call>this is not json</tool_call>`
	reply := p.HandleModelOutput(context.Background(), raw)
	assert.Equal(t, raw, reply.Text)
	assert.Nil(t, reply.Result)
	assert.Contains(t, buf.String(), "malformed")
}

func TestPipeline_UnknownToolRendersExplanation(t *testing.T) {
	// A known id with no registered executor on this platform.
	p := newTestPipeline(t, NewRegistry())

	reply := p.HandleModelOutput(context.Background(),
		`<tool_call>{"name":"petalContactsTool","arguments":{"query":"Sarah"}}</tool_call>`)

	require.NotNil(t, reply.Result)
	assert.ErrorIs(t, reply.Result.Err, ErrUnknownTool)
	assert.Equal(t, "I don't know how to do that yet.", reply.Text)
}

func TestPipeline_ExecutionFailureIsRenderedNotRethrown(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewTool(calendarDesc(), func(ctx context.Context, call TypedCall) (Result, error) {
		panic("executor bug")
	}))
	p := newTestPipeline(t, reg)

	reply := p.HandleModelOutput(context.Background(),
		`{"name":"petalCalendarFetchEventsTool","arguments":{}}`)

	require.NotNil(t, reply.Result)
	assert.True(t, IsExecutionError(reply.Result.Err))
	assert.Contains(t, reply.Text, "Something went wrong")
}

func TestPipeline_StrictArgumentsFallsBack(t *testing.T) {
	reg := NewRegistry()
	desc := calendarDesc()
	desc.Parameters = ParametersFor[CalendarFetchCall]()
	executed := false
	reg.Register(NewTool(desc, func(ctx context.Context, call TypedCall) (Result, error) {
		executed = true
		return Success(nil), nil
	}))

	raw := `{"name":"petalCalendarFetchEventsTool","arguments":{"startDate":123}}`

	strict := newTestPipeline(t, reg, WithStrictArguments())
	reply := strict.HandleModelOutput(context.Background(), raw)
	assert.Equal(t, raw, reply.Text)
	assert.Nil(t, reply.Result)
	assert.False(t, executed)

	// Without strict mode the tolerant decoder salvages and dispatches.
	lenient := newTestPipeline(t, reg)
	reply = lenient.HandleModelOutput(context.Background(), raw)
	require.NotNil(t, reply.Result)
	assert.True(t, executed)
}

func TestPipeline_ShouldUseTool(t *testing.T) {
	p := newTestPipeline(t, NewRegistry())
	assert.True(t, p.ShouldUseTool("Show me my Canvas courses"))
	assert.False(t, p.ShouldUseTool("hello how are you"))
}

package petals

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ErrorPhrasingsAreDistinct(t *testing.T) {
	ren := NewRenderer()

	denied := ren.Render(Result{
		Tool:   ToolContacts,
		Status: StatusFailure,
		Err:    &PermissionError{Tool: ToolContacts, Required: PermissionSensitive, Granted: PermissionBasic},
	})
	noResults := ren.Render(Result{
		Tool:    ToolContacts,
		Status:  StatusSuccess,
		Payload: json.RawMessage(`[]`),
	})
	failed := ren.Render(Result{
		Tool:   ToolContacts,
		Status: StatusFailure,
		Err:    &ExecutionError{Tool: ToolContacts, Err: errors.New("backend down")},
	})

	assert.Contains(t, denied, "not allowed")
	assert.Contains(t, denied, "Settings")
	assert.Contains(t, noResults, "didn't find anything")
	assert.Contains(t, failed, "Something went wrong")

	// The three outcomes must never read the same.
	assert.NotEqual(t, denied, noResults)
	assert.NotEqual(t, denied, failed)
	assert.NotEqual(t, noResults, failed)
}

func TestRender_UnknownTool(t *testing.T) {
	ren := NewRenderer()
	text := ren.Render(Result{
		Tool:   ToolID("petalWeatherTool"),
		Status: StatusFailure,
		Err:    &UnknownToolError{Name: "petalWeatherTool"},
	})
	assert.Equal(t, "I don't know how to do that yet.", text)
}

func TestRender_DecodeError(t *testing.T) {
	ren := NewRenderer()
	text := ren.Render(Result{
		Tool:   ToolNotes,
		Status: StatusFailure,
		Err:    &DecodeError{Tool: ToolNotes, Reason: "bad bytes"},
	})
	assert.Contains(t, text, "couldn't make sense")
	assert.Contains(t, text, "your notes")
}

func TestRender_EmptyPayloadVariants(t *testing.T) {
	ren := NewRenderer()
	for _, payload := range []string{"", "null", "[]", "{}", `""`} {
		text := ren.Render(Result{Tool: ToolReminders, Status: StatusSuccess, Payload: json.RawMessage(payload)})
		assert.Contains(t, text, "didn't find anything", "payload %q", payload)
	}
}

func TestRender_GenericFallback(t *testing.T) {
	ren := NewRenderer()
	text := ren.Render(Result{
		Tool:    ToolNotes,
		Status:  StatusSuccess,
		Payload: json.RawMessage(`{"title":"Groceries","body":"oat milk"}`),
	})
	// No bespoke formatter installed: payload is pretty-printed.
	assert.Contains(t, text, `"title"`)
	assert.Contains(t, text, "Groceries")
}

func TestRender_BespokeFormatterWins(t *testing.T) {
	ren := NewRenderer()
	ren.SetFormatter(ToolNotes, func(res Result) string {
		return "custom rendering"
	})
	text := ren.Render(Result{
		Tool:    ToolNotes,
		Status:  StatusSuccess,
		Payload: json.RawMessage(`{"title":"x"}`),
	})
	assert.Equal(t, "custom rendering", text)

	// Other tools still use the generic fallback.
	other := ren.Render(Result{Tool: ToolContacts, Status: StatusSuccess, Payload: json.RawMessage(`{"name":"Sarah"}`)})
	assert.Contains(t, other, "Sarah")
}

func TestRender_NeedMoreInfoWithSuggestions(t *testing.T) {
	ren := NewRenderer()
	text := ren.Render(NeedMoreInfo(
		"What should the event be called?",
		SuggestedAction{Label: "Name it \"Study session\"", Prompt: "Call it Study session"},
	))
	assert.Contains(t, text, "What should the event be called?")
	assert.Contains(t, text, "• Name it")
}

func TestRender_NeedMoreInfoDefaultMessage(t *testing.T) {
	ren := NewRenderer()
	text := ren.Render(Result{Status: StatusNeedMoreInfo})
	assert.Equal(t, "I need a bit more information to do that.", text)
}

func TestRender_FailureMessagePassesThrough(t *testing.T) {
	ren := NewRenderer()
	text := ren.Render(Result{
		Tool:    ToolReminders,
		Status:  StatusFailure,
		Message: `I couldn't find a reminder matching "laundry".`,
	})
	assert.Equal(t, `I couldn't find a reminder matching "laundry".`, text)

	// Without a message, failures still get a readable default.
	fallback := ren.Render(Result{Tool: ToolReminders, Status: StatusFailure})
	assert.Contains(t, fallback, "your reminders")
}

func TestRender_SuggestionsOnSuccess(t *testing.T) {
	ren := NewRenderer()
	text := ren.Render(Result{
		Tool:    ToolCanvasGrades,
		Status:  StatusSuccess,
		Payload: json.RawMessage(`{"course":"Math 215"}`),
		SuggestedActions: []SuggestedAction{
			{Label: "What's my grade in Math 215", Prompt: "What's my grade in Math 215"},
		},
	})
	require.Contains(t, text, "Math 215")
	assert.Contains(t, text, "• What's my grade in Math 215")
}

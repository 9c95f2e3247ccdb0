package petals

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/pretty"
)

// Formatter renders a successful result for one tool as user-facing text.
type Formatter func(Result) string

// Renderer turns dispatch results into conversation-displayable text. Tools
// with a bespoke formatter get tailored phrasing; everything else falls back
// to a generic structured-payload rendering. Error kinds keep distinct
// user-facing phrasings — "not permitted", "no results", and "execution
// failed" never collapse into one generic message.
type Renderer struct {
	mu         sync.RWMutex
	formatters map[ToolID]Formatter
}

// NewRenderer creates an empty Renderer; install bespoke formatters with
// SetFormatter (toolkit.RegisterFormatters installs the built-in ones).
func NewRenderer() *Renderer {
	return &Renderer{formatters: make(map[ToolID]Formatter)}
}

// SetFormatter installs (or replaces) the bespoke formatter for id.
func (r *Renderer) SetFormatter(id ToolID, f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[id] = f
}

// Render produces the user-facing text for res.
func (r *Renderer) Render(res Result) string {
	if res.Err != nil {
		return r.renderError(res)
	}
	switch res.Status {
	case StatusNeedMoreInfo:
		return r.renderNeedMoreInfo(res)
	case StatusFailure, StatusPartialFailure:
		if res.Message != "" {
			return res.Message
		}
		return fmt.Sprintf("I couldn't finish that %s request.", displayName(res.Tool))
	}
	if emptyPayload(res.Payload) && res.Message == "" {
		// Executed fine, found nothing: must read differently from an error.
		return fmt.Sprintf("I checked %s, but didn't find anything.", displayName(res.Tool))
	}
	r.mu.RLock()
	f, ok := r.formatters[res.Tool]
	r.mu.RUnlock()
	if ok {
		return withSuggestions(f(res), res.SuggestedActions)
	}
	return withSuggestions(genericRender(res), res.SuggestedActions)
}

func (r *Renderer) renderError(res Result) string {
	err := res.Err
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return fmt.Sprintf("I'm not allowed to access %s right now. You can grant access in Settings.", displayName(res.Tool))
	case errors.Is(err, ErrUnknownTool):
		return "I don't know how to do that yet."
	case errors.Is(err, ErrArgumentDecode):
		return fmt.Sprintf("I couldn't make sense of the details for that %s request. Mind rephrasing?", displayName(res.Tool))
	default:
		return fmt.Sprintf("Something went wrong while running %s. Please try again.", displayName(res.Tool))
	}
}

func (r *Renderer) renderNeedMoreInfo(res Result) string {
	msg := res.Message
	if msg == "" {
		msg = "I need a bit more information to do that."
	}
	return withSuggestions(msg, res.SuggestedActions)
}

// genericRender is the fallback for tools without a bespoke formatter: the
// message, if any, plus the payload pretty-printed.
func genericRender(res Result) string {
	var b strings.Builder
	if res.Message != "" {
		b.WriteString(res.Message)
	}
	if !emptyPayload(res.Payload) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.Write(pretty.Pretty(res.Payload))
	}
	return strings.TrimRight(b.String(), "\n")
}

func withSuggestions(text string, actions []SuggestedAction) string {
	if len(actions) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	for _, a := range actions {
		b.WriteString("\n• ")
		b.WriteString(a.Label)
	}
	return b.String()
}

// displayName gives a human-readable name for error phrasing without needing
// the descriptor (dispatch failures may have no registered descriptor at all).
func displayName(id ToolID) string {
	switch id {
	case ToolCalendarFetchEvents, ToolCalendarCreateEvent:
		return "your calendar"
	case ToolCanvasCourses:
		return "your Canvas courses"
	case ToolCanvasGrades:
		return "your Canvas grades"
	case ToolReminders:
		return "your reminders"
	case ToolNotes:
		return "your notes"
	case ToolContacts:
		return "your contacts"
	default:
		if id == "" {
			return "that tool"
		}
		return string(id)
	}
}

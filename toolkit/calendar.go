package toolkit

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aadishiv23/petals"
)

// Event is one calendar entry.
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Location     string    `json:"location,omitempty"`
	CalendarName string    `json:"calendarName,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

// CalendarStore is an in-memory event store standing in for the platform
// calendar. Access mirrors an OS-level grant: when revoked, every operation
// fails with PermissionError.
type CalendarStore struct {
	mu      sync.RWMutex
	granted bool
	events  []Event
}

// NewCalendarStore creates a store with access granted.
func NewCalendarStore() *CalendarStore {
	return &CalendarStore{granted: true}
}

// SetAccessGranted flips the simulated platform permission.
func (s *CalendarStore) SetAccessGranted(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.granted = ok
}

func (s *CalendarStore) accessGranted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.granted
}

// Add stores an event, assigning an id when absent, and returns the stored copy.
func (s *CalendarStore) Add(e Event) Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return e
}

// between returns events overlapping [from, to] (zero bounds are open),
// optionally restricted to one calendar, sorted by start time.
func (s *CalendarStore) between(from, to time.Time, calendar string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if !from.IsZero() && e.End.Before(from) {
			continue
		}
		if !to.IsZero() && e.Start.After(to) {
			continue
		}
		if calendar != "" && !strings.EqualFold(e.CalendarName, calendar) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

type calendarFetchTool struct {
	store *CalendarStore
}

func (t *calendarFetchTool) Descriptor() petals.Descriptor {
	return petals.Descriptor{
		ID:              petals.ToolCalendarFetchEvents,
		DisplayName:     "Fetch Calendar Events",
		Description:     "Fetch the user's calendar events, optionally filtered by date range or calendar name.",
		Parameters:      petals.ParametersFor[petals.CalendarFetchCall](),
		TriggerKeywords: []string{"calendar", "events", "schedule", "meeting", "agenda"},
		Domain:          petals.DomainCalendar,
		Permission:      petals.PermissionBasic,
	}
}

func (t *calendarFetchTool) Execute(_ context.Context, call petals.TypedCall) (petals.Result, error) {
	args, ok := call.(*petals.CalendarFetchCall)
	if !ok {
		return petals.Result{}, &petals.DecodeError{Tool: petals.ToolCalendarFetchEvents, Reason: "unexpected call variant"}
	}
	if !t.store.accessGranted() {
		return petals.Result{}, &petals.PermissionError{Tool: petals.ToolCalendarFetchEvents, Required: petals.PermissionBasic}
	}
	// Unparsable date filters are ignored rather than refused; an empty
	// filter set fetches everything.
	var from, to time.Time
	if args.StartDate != "" {
		from, _ = parseDate(args.StartDate)
	}
	if args.EndDate != "" {
		if parsed, ok := parseDate(args.EndDate); ok {
			// A bare date means "through the end of that day".
			if parsed.Hour() == 0 && parsed.Minute() == 0 {
				parsed = parsed.Add(24*time.Hour - time.Second)
			}
			to = parsed
		}
	}
	return petals.Success(t.store.between(from, to, args.CalendarName)), nil
}

type calendarCreateTool struct {
	store *CalendarStore
}

func (t *calendarCreateTool) Descriptor() petals.Descriptor {
	return petals.Descriptor{
		ID:              petals.ToolCalendarCreateEvent,
		DisplayName:     "Create Calendar Event",
		Description:     "Create a new event on the user's calendar.",
		Parameters:      petals.ParametersFor[petals.CalendarCreateCall](),
		TriggerKeywords: []string{"calendar", "event", "schedule", "add", "meeting"},
		Domain:          petals.DomainCalendar,
		Permission:      petals.PermissionStandard,
	}
}

func (t *calendarCreateTool) Execute(_ context.Context, call petals.TypedCall) (petals.Result, error) {
	args, ok := call.(*petals.CalendarCreateCall)
	if !ok {
		return petals.Result{}, &petals.DecodeError{Tool: petals.ToolCalendarCreateEvent, Reason: "unexpected call variant"}
	}
	if !t.store.accessGranted() {
		return petals.Result{}, &petals.PermissionError{Tool: petals.ToolCalendarCreateEvent, Required: petals.PermissionStandard}
	}
	if strings.TrimSpace(args.Title) == "" {
		return petals.NeedMoreInfo("What should I call the event?",
			petals.SuggestedAction{Label: "Name the event", Prompt: "Call the event "}), nil
	}
	start, ok := parseDate(args.StartDate)
	if !ok {
		return petals.NeedMoreInfo("When should the event start?",
			petals.SuggestedAction{Label: "Pick a start time", Prompt: "Start the event at "}), nil
	}
	end, ok := parseDate(args.EndDate)
	if !ok {
		end = start.Add(time.Hour)
	}
	created := t.store.Add(Event{
		Title:    args.Title,
		Start:    start,
		End:      end,
		Location: args.Location,
		Notes:    args.Notes,
	})
	return petals.Success(created), nil
}

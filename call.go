package petals

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// TypedCall is the closed tagged union of per-tool argument payloads. Exactly
// one variant exists per ToolID, plus UnknownCall for names outside the
// enumeration. Dispatch matches on ToolID; executors type-switch on the
// variant to reach the concrete fields.
type TypedCall interface {
	ToolID() ToolID
	typedCall()
}

// Date and time fields are kept as strings on purpose: models emit every
// imaginable format, and each executor owns the parsing (and the fallback
// behavior) for its own fields.

// CalendarFetchCall fetches calendar events, optionally filtered.
type CalendarFetchCall struct {
	StartDate    string `json:"startDate,omitempty" jsonschema:"description=Inclusive start of the date range (ISO 8601 or YYYY-MM-DD)"`
	EndDate      string `json:"endDate,omitempty" jsonschema:"description=Inclusive end of the date range (ISO 8601 or YYYY-MM-DD)"`
	CalendarName string `json:"calendarName,omitempty" jsonschema:"description=Restrict to a single named calendar"`
}

func (CalendarFetchCall) ToolID() ToolID { return ToolCalendarFetchEvents }
func (CalendarFetchCall) typedCall()     {}

// CalendarCreateCall creates a calendar event.
type CalendarCreateCall struct {
	Title     string `json:"title,omitempty" jsonschema:"description=Event title"`
	StartDate string `json:"startDate,omitempty" jsonschema:"description=Event start (ISO 8601 or YYYY-MM-DD)"`
	EndDate   string `json:"endDate,omitempty" jsonschema:"description=Event end; defaults to one hour after start"`
	Location  string `json:"location,omitempty" jsonschema:"description=Event location"`
	Notes     string `json:"notes,omitempty" jsonschema:"description=Free-form event notes"`
}

func (CalendarCreateCall) ToolID() ToolID { return ToolCalendarCreateEvent }
func (CalendarCreateCall) typedCall()     {}

// CanvasCoursesCall lists the user's Canvas courses.
type CanvasCoursesCall struct {
	IncludeCompleted bool `json:"includeCompleted,omitempty" jsonschema:"description=Include completed courses as well as active ones"`
}

func (CanvasCoursesCall) ToolID() ToolID { return ToolCanvasCourses }
func (CanvasCoursesCall) typedCall()     {}

// CanvasGradesCall looks up grades, optionally for one course.
type CanvasGradesCall struct {
	CourseName string `json:"courseName,omitempty" jsonschema:"description=Course to report grades for; empty means all courses"`
}

func (CanvasGradesCall) ToolID() ToolID { return ToolCanvasGrades }
func (CanvasGradesCall) typedCall()     {}

// RemindersCall creates, fetches, or completes reminders.
type RemindersCall struct {
	Action   string `json:"action,omitempty" jsonschema:"description=One of create / fetch / complete,enum=create,enum=fetch,enum=complete"`
	Title    string `json:"title,omitempty" jsonschema:"description=Reminder title"`
	DueDate  string `json:"dueDate,omitempty" jsonschema:"description=Due date (ISO 8601 or YYYY-MM-DD)"`
	ListName string `json:"listName,omitempty" jsonschema:"description=Reminder list to use"`
	Notes    string `json:"notes,omitempty" jsonschema:"description=Free-form reminder notes"`
}

func (RemindersCall) ToolID() ToolID { return ToolReminders }
func (RemindersCall) typedCall()     {}

// NotesCall creates or searches notes.
type NotesCall struct {
	Action string `json:"action,omitempty" jsonschema:"description=One of create / search,enum=create,enum=search"`
	Title  string `json:"title,omitempty" jsonschema:"description=Note title (create)"`
	Body   string `json:"body,omitempty" jsonschema:"description=Note body (create)"`
	Query  string `json:"query,omitempty" jsonschema:"description=Search text (search)"`
}

func (NotesCall) ToolID() ToolID { return ToolNotes }
func (NotesCall) typedCall()     {}

// ContactsCall searches the user's contacts.
type ContactsCall struct {
	Query string `json:"query,omitempty" jsonschema:"description=Name fragment to search for"`
}

func (ContactsCall) ToolID() ToolID { return ToolContacts }
func (ContactsCall) typedCall()     {}

// UnknownCall is the fallback variant for a call whose name is outside the
// ToolID enumeration. Dispatching it fails with ErrUnknownTool.
type UnknownCall struct {
	Name      string
	Arguments json.RawMessage
}

func (c *UnknownCall) ToolID() ToolID { return ToolID(c.Name) }
func (c *UnknownCall) typedCall()     {}

// Decode converts a canonical envelope into its TypedCall variant. Pure and
// synchronous; it never panics. Unrecognized names produce UnknownCall (not an
// error), degenerate argument payloads fall back to the variant's zero value,
// and only irreparable argument bytes produce a DecodeError.
func Decode(env *CallEnvelope) (TypedCall, error) {
	id, _ := ParseToolID(env.Name)
	switch id {
	case ToolCalendarFetchEvents:
		return decodeArgs[CalendarFetchCall, *CalendarFetchCall](id, env.Arguments)
	case ToolCalendarCreateEvent:
		return decodeArgs[CalendarCreateCall, *CalendarCreateCall](id, env.Arguments)
	case ToolCanvasCourses:
		return decodeArgs[CanvasCoursesCall, *CanvasCoursesCall](id, env.Arguments)
	case ToolCanvasGrades:
		return decodeArgs[CanvasGradesCall, *CanvasGradesCall](id, env.Arguments)
	case ToolReminders:
		return decodeArgs[RemindersCall, *RemindersCall](id, env.Arguments)
	case ToolNotes:
		return decodeArgs[NotesCall, *NotesCall](id, env.Arguments)
	case ToolContacts:
		return decodeArgs[ContactsCall, *ContactsCall](id, env.Arguments)
	}
	return &UnknownCall{Name: env.Name, Arguments: env.Arguments}, nil
}

// decodeArgs unmarshals raw into V, tolerating the degenerate shapes small
// local models emit. Missing, empty, and non-object payloads (a bare bool,
// string, number, null, or array) decode to the zero value of V. An argument
// object with one mistyped field is salvaged field by field instead of being
// discarded whole. PV is the pointer form of V, constrained so &v satisfies
// TypedCall.
func decodeArgs[V any, PV interface {
	*V
	TypedCall
}](id ToolID, raw json.RawMessage) (TypedCall, error) {
	var v V
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return PV(&v), nil
	}
	if trimmed[0] != '{' {
		if json.Valid(trimmed) {
			return PV(&v), nil
		}
		return nil, &DecodeError{Tool: id, Reason: "arguments are not valid JSON"}
	}
	if err := json.Unmarshal(trimmed, &v); err == nil {
		return PV(&v), nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &DecodeError{Tool: id, Reason: "argument object is not valid JSON", Err: err}
	}
	salvageFields(&v, fields)
	return PV(&v), nil
}

// salvageFields assigns whichever fields of dst (a pointer to struct) can be
// individually unmarshaled from the raw argument object, skipping the rest.
func salvageFields(dst any, fields map[string]json.RawMessage) {
	val := reflect.ValueOf(dst).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		raw, ok := fields[name]
		if !ok {
			continue
		}
		target := reflect.New(field.Type)
		if err := json.Unmarshal(raw, target.Interface()); err != nil {
			continue
		}
		val.Field(i).Set(target.Elem())
	}
}

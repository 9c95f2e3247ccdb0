// Package toolkit provides the built-in Petals tool families — calendar,
// Canvas course/grade lookup, reminders, notes, and contacts — with reference
// executors: in-memory stores plus an HTTP Canvas client. Host apps keep the
// descriptors and swap in platform executors by registering their own
// petals.Tool under the same id.
package toolkit

import (
	"time"

	"github.com/aadishiv23/petals"
)

// Deps carries the backing stores and clients for the built-in tools. A nil
// field means the capability is unavailable on this platform; its tools are
// simply not registered, and dispatching them fails with ErrUnknownTool like
// any other unknown id.
type Deps struct {
	Calendar  *CalendarStore
	Canvas    CanvasSource
	Reminders *ReminderStore
	Notes     *NoteStore
	Contacts  *ContactStore
}

// Register registers every built-in tool whose backing dependency is present
// and whose required permission is at or below granted. Registration is an
// upsert, so calling it again after a permission change is safe.
func Register(reg *petals.Registry, deps Deps, granted petals.Permission) {
	var tools []petals.Tool
	if deps.Calendar != nil {
		tools = append(tools,
			&calendarFetchTool{store: deps.Calendar},
			&calendarCreateTool{store: deps.Calendar},
		)
	}
	if deps.Canvas != nil {
		tools = append(tools,
			&canvasCoursesTool{src: deps.Canvas},
			&canvasGradesTool{src: deps.Canvas},
		)
	}
	if deps.Reminders != nil {
		tools = append(tools, &remindersTool{store: deps.Reminders})
	}
	if deps.Notes != nil {
		tools = append(tools, &notesTool{store: deps.Notes})
	}
	if deps.Contacts != nil {
		tools = append(tools, &contactsTool{store: deps.Contacts})
	}
	for _, t := range tools {
		if t.Descriptor().Permission > granted {
			continue
		}
		reg.Register(t)
	}
}

// Date layouts accepted from model-emitted arguments, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDate parses a model-emitted date string. Unparsable input returns
// false; callers decide between ignoring the filter and asking the user.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

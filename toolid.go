package petals

// ToolID identifies one of the Petals tools. The enumeration is closed and is
// the single source of tool identity for the normalizer, decoder, and registry;
// no layer carries its own copy of these names.
type ToolID string

const (
	ToolCalendarFetchEvents ToolID = "petalCalendarFetchEventsTool"
	ToolCalendarCreateEvent ToolID = "petalCalendarCreateEventTool"
	ToolCanvasCourses       ToolID = "petalFetchCanvasCoursesTool"
	ToolCanvasGrades        ToolID = "petalFetchCanvasGradesTool"
	ToolReminders           ToolID = "petalRemindersTool"
	ToolNotes               ToolID = "petalNotesTool"
	ToolContacts            ToolID = "petalContactsTool"
)

// AllToolIDs lists every known tool id in declaration order. Code that
// short-circuits on first match (e.g. Evaluator.ShouldUseAnyTool) iterates in
// this order, so near-threshold ties resolve to the earlier id and the result
// is stable across runs.
var AllToolIDs = []ToolID{
	ToolCalendarFetchEvents,
	ToolCalendarCreateEvent,
	ToolCanvasCourses,
	ToolCanvasGrades,
	ToolReminders,
	ToolNotes,
	ToolContacts,
}

// ParseToolID maps a raw tool name to its ToolID, or ("", false) if the name
// is not a member of the enumeration.
func ParseToolID(name string) (ToolID, bool) {
	for _, id := range AllToolIDs {
		if string(id) == name {
			return id, true
		}
	}
	return "", false
}

// Permission ranks how much access a tool requires. Levels form a total
// order (Basic < Standard < Sensitive < Administrative); compare with <=.
type Permission int

const (
	PermissionBasic Permission = iota
	PermissionStandard
	PermissionSensitive
	PermissionAdministrative
)

func (p Permission) String() string {
	switch p {
	case PermissionBasic:
		return "basic"
	case PermissionStandard:
		return "standard"
	case PermissionSensitive:
		return "sensitive"
	case PermissionAdministrative:
		return "administrative"
	default:
		return "unknown"
	}
}

// Domains used by Descriptor.Domain and Registry.Query.
const (
	DomainCalendar  = "calendar"
	DomainAcademics = "academics"
	DomainReminders = "reminders"
	DomainNotes     = "notes"
	DomainContacts  = "contacts"
)

package toolkit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aadishiv23/petals"
)

// RegisterFormatters installs the bespoke result formatters for the built-in
// tools on ren. Tools left out here (none currently) would fall back to the
// renderer's generic structured-payload rendering.
func RegisterFormatters(ren *petals.Renderer) {
	ren.SetFormatter(petals.ToolCalendarFetchEvents, formatEvents)
	ren.SetFormatter(petals.ToolCalendarCreateEvent, formatCreatedEvent)
	ren.SetFormatter(petals.ToolCanvasCourses, formatCourses)
	ren.SetFormatter(petals.ToolCanvasGrades, formatGrades)
	ren.SetFormatter(petals.ToolReminders, formatReminders)
	ren.SetFormatter(petals.ToolNotes, formatNotes)
	ren.SetFormatter(petals.ToolContacts, formatContacts)
}

const eventTimeLayout = "Mon Jan 2, 3:04 PM"

func formatEvents(res petals.Result) string {
	var events []Event
	if err := json.Unmarshal(res.Payload, &events); err != nil {
		return string(res.Payload)
	}
	var b strings.Builder
	b.WriteString("Here's what's on your calendar:")
	for _, e := range events {
		fmt.Fprintf(&b, "\n• %s — %s", e.Title, e.Start.Format(eventTimeLayout))
		if e.Location != "" {
			fmt.Fprintf(&b, " (%s)", e.Location)
		}
	}
	return b.String()
}

func formatCreatedEvent(res petals.Result) string {
	var e Event
	if err := json.Unmarshal(res.Payload, &e); err != nil {
		return string(res.Payload)
	}
	return fmt.Sprintf("Added %q to your calendar for %s.", e.Title, e.Start.Format(eventTimeLayout))
}

func formatCourses(res petals.Result) string {
	var courses []Course
	if err := json.Unmarshal(res.Payload, &courses); err != nil {
		return string(res.Payload)
	}
	var b strings.Builder
	b.WriteString("You're enrolled in:")
	for _, c := range courses {
		b.WriteString("\n• ")
		b.WriteString(c.Name)
		if c.Code != "" {
			fmt.Fprintf(&b, " (%s)", c.Code)
		}
	}
	return b.String()
}

func formatGrades(res petals.Result) string {
	var grades []Grade
	if err := json.Unmarshal(res.Payload, &grades); err != nil {
		return string(res.Payload)
	}
	var b strings.Builder
	b.WriteString("Here are your current grades:")
	for _, g := range grades {
		fmt.Fprintf(&b, "\n• %s: ", g.CourseName)
		switch {
		case g.Grade != "":
			fmt.Fprintf(&b, "%s (%.1f%%)", g.Grade, g.Score)
		case g.Score > 0:
			fmt.Fprintf(&b, "%.1f%%", g.Score)
		default:
			b.WriteString("no grade posted yet")
		}
	}
	return b.String()
}

func formatReminders(res petals.Result) string {
	// Payload is a single reminder for create/complete, a list for fetch.
	var one Reminder
	if err := json.Unmarshal(res.Payload, &one); err == nil && one.Title != "" {
		if one.Completed {
			return fmt.Sprintf("Done — marked %q as completed.", one.Title)
		}
		if one.Due != nil {
			return fmt.Sprintf("I'll remind you: %q (due %s).", one.Title, one.Due.Format(eventTimeLayout))
		}
		return fmt.Sprintf("I'll remind you: %q.", one.Title)
	}
	var many []Reminder
	if err := json.Unmarshal(res.Payload, &many); err != nil {
		return string(res.Payload)
	}
	var b strings.Builder
	b.WriteString("Your open reminders:")
	for _, r := range many {
		b.WriteString("\n• ")
		b.WriteString(r.Title)
		if r.Due != nil {
			fmt.Fprintf(&b, " (due %s)", r.Due.Format(eventTimeLayout))
		}
	}
	return b.String()
}

func formatNotes(res petals.Result) string {
	var one Note
	if err := json.Unmarshal(res.Payload, &one); err == nil && one.Title != "" && one.ID != "" {
		return fmt.Sprintf("Saved your note %q.", one.Title)
	}
	var many []Note
	if err := json.Unmarshal(res.Payload, &many); err != nil {
		return string(res.Payload)
	}
	var b strings.Builder
	b.WriteString("Here's what I found in your notes:")
	for _, n := range many {
		b.WriteString("\n• ")
		b.WriteString(n.Title)
	}
	return b.String()
}

func formatContacts(res petals.Result) string {
	var contacts []Contact
	if err := json.Unmarshal(res.Payload, &contacts); err != nil {
		return string(res.Payload)
	}
	var b strings.Builder
	b.WriteString("Here's who I found:")
	for _, c := range contacts {
		b.WriteString("\n• ")
		b.WriteString(c.Name)
		var details []string
		if c.Phone != "" {
			details = append(details, c.Phone)
		}
		if c.Email != "" {
			details = append(details, c.Email)
		}
		if len(details) > 0 {
			fmt.Fprintf(&b, " — %s", strings.Join(details, ", "))
		}
	}
	return b.String()
}

package toolkit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aadishiv23/petals"
)

// Reminder is one to-do item.
type Reminder struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Due       *time.Time `json:"due,omitempty"`
	List      string     `json:"list,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Completed bool       `json:"completed"`
}

// ReminderStore is an in-memory reminder list standing in for the platform
// reminders service.
type ReminderStore struct {
	mu    sync.RWMutex
	items []Reminder
}

// NewReminderStore creates an empty store.
func NewReminderStore() *ReminderStore {
	return &ReminderStore{}
}

// Add stores a reminder, assigning an id when absent.
func (s *ReminderStore) Add(r Reminder) Reminder {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	return r
}

// Open returns the reminders not yet completed, in insertion order.
func (s *ReminderStore) Open() []Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Reminder
	for _, r := range s.items {
		if !r.Completed {
			out = append(out, r)
		}
	}
	return out
}

// Complete marks the first open reminder whose title contains title
// (case-insensitive) as done.
func (s *ReminderStore) Complete(title string) (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(title)
	for i, r := range s.items {
		if r.Completed {
			continue
		}
		if strings.Contains(strings.ToLower(r.Title), needle) {
			s.items[i].Completed = true
			return s.items[i], true
		}
	}
	return Reminder{}, false
}

type remindersTool struct {
	store *ReminderStore
}

func (t *remindersTool) Descriptor() petals.Descriptor {
	return petals.Descriptor{
		ID:              petals.ToolReminders,
		DisplayName:     "Reminders",
		Description:     "Create, fetch, or complete the user's reminders.",
		Parameters:      petals.ParametersFor[petals.RemindersCall](),
		TriggerKeywords: []string{"remind", "reminder", "reminders", "todo", "task"},
		Domain:          petals.DomainReminders,
		Permission:      petals.PermissionStandard,
	}
}

func (t *remindersTool) Execute(_ context.Context, call petals.TypedCall) (petals.Result, error) {
	args, ok := call.(*petals.RemindersCall)
	if !ok {
		return petals.Result{}, &petals.DecodeError{Tool: petals.ToolReminders, Reason: "unexpected call variant"}
	}
	action := strings.ToLower(strings.TrimSpace(args.Action))
	if action == "" {
		// Models often omit the action; a title strongly implies create.
		if strings.TrimSpace(args.Title) != "" {
			action = "create"
		} else {
			action = "fetch"
		}
	}
	switch action {
	case "create":
		if strings.TrimSpace(args.Title) == "" {
			return petals.NeedMoreInfo("What should I remind you about?"), nil
		}
		r := Reminder{Title: args.Title, List: args.ListName, Notes: args.Notes}
		if args.DueDate != "" {
			if due, ok := parseDate(args.DueDate); ok {
				r.Due = &due
			}
		}
		return petals.Success(t.store.Add(r)), nil
	case "fetch":
		return petals.Success(t.store.Open()), nil
	case "complete":
		if strings.TrimSpace(args.Title) == "" {
			return petals.NeedMoreInfo("Which reminder should I mark as done?"), nil
		}
		done, ok := t.store.Complete(args.Title)
		if !ok {
			return petals.Result{
				Status:  petals.StatusFailure,
				Message: fmt.Sprintf("I couldn't find an open reminder matching %q.", args.Title),
			}, nil
		}
		return petals.Success(done), nil
	default:
		return petals.NeedMoreInfo("I can create, fetch, or complete reminders. Which would you like?",
			petals.SuggestedAction{Label: "Show my reminders", Prompt: "What reminders do I have"},
		), nil
	}
}

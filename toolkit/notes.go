package toolkit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aadishiv23/petals"
)

// Note is one stored note.
type Note struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Body    string    `json:"body,omitempty"`
	Created time.Time `json:"created"`
}

// NoteStore is an in-memory note collection standing in for the platform
// notes app.
type NoteStore struct {
	mu    sync.RWMutex
	notes []Note
	now   func() time.Time
}

// NewNoteStore creates an empty store.
func NewNoteStore() *NoteStore {
	return &NoteStore{now: time.Now}
}

// Add stores a note, assigning an id and creation time when absent.
func (s *NoteStore) Add(n Note) Note {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Created.IsZero() {
		n.Created = s.now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
	return n
}

// Search returns notes whose title or body contains query, case-insensitive.
func (s *NoteStore) Search(query string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	var out []Note
	for _, n := range s.notes {
		if strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Body), needle) {
			out = append(out, n)
		}
	}
	return out
}

type notesTool struct {
	store *NoteStore
}

func (t *notesTool) Descriptor() petals.Descriptor {
	return petals.Descriptor{
		ID:              petals.ToolNotes,
		DisplayName:     "Notes",
		Description:     "Create a note or search the user's existing notes.",
		Parameters:      petals.ParametersFor[petals.NotesCall](),
		TriggerKeywords: []string{"note", "notes", "write down", "jot"},
		Domain:          petals.DomainNotes,
		Permission:      petals.PermissionStandard,
	}
}

func (t *notesTool) Execute(_ context.Context, call petals.TypedCall) (petals.Result, error) {
	args, ok := call.(*petals.NotesCall)
	if !ok {
		return petals.Result{}, &petals.DecodeError{Tool: petals.ToolNotes, Reason: "unexpected call variant"}
	}
	action := strings.ToLower(strings.TrimSpace(args.Action))
	if action == "" {
		if args.Query != "" {
			action = "search"
		} else {
			action = "create"
		}
	}
	switch action {
	case "create":
		title := strings.TrimSpace(args.Title)
		body := strings.TrimSpace(args.Body)
		if title == "" && body == "" {
			return petals.NeedMoreInfo("What should the note say?"), nil
		}
		if title == "" {
			title = noteTitleFrom(body)
		}
		return petals.Success(t.store.Add(Note{Title: title, Body: body})), nil
	case "search":
		if strings.TrimSpace(args.Query) == "" {
			return petals.NeedMoreInfo("What should I search your notes for?"), nil
		}
		return petals.Success(t.store.Search(args.Query)), nil
	default:
		return petals.NeedMoreInfo("I can create a note or search your notes. Which would you like?"), nil
	}
}

// noteTitleFrom derives a title from the first few words of an untitled body.
func noteTitleFrom(body string) string {
	words := strings.Fields(body)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ")
}

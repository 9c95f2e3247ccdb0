package toolkit

import (
	"context"
	"strings"
	"sync"

	"github.com/aadishiv23/petals"
)

// Contact is one address-book entry.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Label string `json:"label,omitempty"` // e.g. "advisor", "roommate"
}

// ContactStore is an in-memory address book standing in for the platform
// contacts database. Contact access is the most sensitive of the built-in
// capabilities, so the store carries the same simulated grant as the
// calendar.
type ContactStore struct {
	mu       sync.RWMutex
	granted  bool
	contacts []Contact
}

// NewContactStore creates a store with access granted.
func NewContactStore(contacts ...Contact) *ContactStore {
	return &ContactStore{granted: true, contacts: contacts}
}

// SetAccessGranted flips the simulated platform permission.
func (s *ContactStore) SetAccessGranted(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.granted = ok
}

func (s *ContactStore) accessGranted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.granted
}

// Add stores a contact.
func (s *ContactStore) Add(c Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, c)
}

// Search returns contacts whose name or label contains query, case-insensitive.
func (s *ContactStore) Search(query string) []Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	var out []Contact
	for _, c := range s.contacts {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Label), needle) {
			out = append(out, c)
		}
	}
	return out
}

type contactsTool struct {
	store *ContactStore
}

func (t *contactsTool) Descriptor() petals.Descriptor {
	return petals.Descriptor{
		ID:              petals.ToolContacts,
		DisplayName:     "Contacts",
		Description:     "Search the user's contacts by name.",
		Parameters:      petals.ParametersFor[petals.ContactsCall](),
		TriggerKeywords: []string{"contact", "contacts", "phone number", "email"},
		Domain:          petals.DomainContacts,
		Permission:      petals.PermissionSensitive,
	}
}

func (t *contactsTool) Execute(_ context.Context, call petals.TypedCall) (petals.Result, error) {
	args, ok := call.(*petals.ContactsCall)
	if !ok {
		return petals.Result{}, &petals.DecodeError{Tool: petals.ToolContacts, Reason: "unexpected call variant"}
	}
	if !t.store.accessGranted() {
		return petals.Result{}, &petals.PermissionError{Tool: petals.ToolContacts, Required: petals.PermissionSensitive}
	}
	if strings.TrimSpace(args.Query) == "" {
		return petals.NeedMoreInfo("Who should I look for?"), nil
	}
	return petals.Success(t.store.Search(args.Query)), nil
}

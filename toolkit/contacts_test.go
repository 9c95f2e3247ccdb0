package toolkit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadishiv23/petals"
)

func seededContacts() *ContactStore {
	return NewContactStore(
		Contact{Name: "Sarah Chen", Phone: "555-0134", Label: "roommate"},
		Contact{Name: "Prof. Rivera", Email: "rivera@umich.edu", Label: "advisor"},
	)
}

func TestContactsTool_Search(t *testing.T) {
	tool := &contactsTool{store: seededContacts()}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"by name fragment", "sarah", []string{"Sarah Chen"}},
		{"by label", "advisor", []string{"Prof. Rivera"}},
		{"no match", "alex", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tool.Execute(context.Background(), &petals.ContactsCall{Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, petals.StatusSuccess, res.Status)
			var found []Contact
			require.NoError(t, json.Unmarshal(res.Payload, &found))
			var names []string
			for _, c := range found {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestContactsTool_EmptyQuery(t *testing.T) {
	tool := &contactsTool{store: seededContacts()}
	res, err := tool.Execute(context.Background(), &petals.ContactsCall{})
	require.NoError(t, err)
	assert.Equal(t, petals.StatusNeedMoreInfo, res.Status)
}

func TestContactsTool_AccessRevoked(t *testing.T) {
	store := seededContacts()
	store.SetAccessGranted(false)
	tool := &contactsTool{store: store}

	_, err := tool.Execute(context.Background(), &petals.ContactsCall{Query: "sarah"})
	require.Error(t, err)
	assert.True(t, petals.IsPermissionDenied(err))

	// The renderer phrases the refusal with the Settings hint.
	reg := petals.NewRegistry()
	reg.Register(tool)
	res := reg.Dispatch(context.Background(), &petals.ContactsCall{Query: "sarah"})
	text := petals.NewRenderer().Render(res)
	assert.Contains(t, text, "not allowed")
	assert.Contains(t, text, "Settings")
}

func TestContactStore_Add(t *testing.T) {
	store := NewContactStore()
	store.Add(Contact{Name: "Alex Kim", Label: "lab partner"})
	assert.Len(t, store.Search("lab"), 1)
}

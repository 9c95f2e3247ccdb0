package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aadishiv23/petals"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMockTool_Defaults(t *testing.T) {
	mock := &MockTool{Desc: petals.Descriptor{ID: petals.ToolNotes}}

	assert.Equal(t, petals.ToolNotes, mock.Descriptor().ID)

	res, err := mock.Execute(context.Background(), &petals.NotesCall{})
	require.NoError(t, err)
	assert.Equal(t, petals.StatusSuccess, res.Status)
	assert.JSONEq(t, `{"ok":true}`, string(res.Payload))
}

func TestMockTool_ExecuteFn(t *testing.T) {
	var got petals.TypedCall
	mock := &MockTool{
		Desc: petals.Descriptor{ID: petals.ToolContacts},
		ExecuteFn: func(ctx context.Context, call petals.TypedCall) (petals.Result, error) {
			got = call
			return petals.NeedMoreInfo("who?"), nil
		},
	}

	res, err := mock.Execute(context.Background(), &petals.ContactsCall{Query: "Sarah"})
	require.NoError(t, err)
	assert.Equal(t, petals.StatusNeedMoreInfo, res.Status)
	assert.Equal(t, &petals.ContactsCall{Query: "Sarah"}, got)
}

func TestNewTestRegistry(t *testing.T) {
	reg := NewTestRegistry(
		&MockTool{Desc: petals.Descriptor{ID: petals.ToolNotes}},
		&MockTool{Desc: petals.Descriptor{ID: petals.ToolContacts}},
	)
	assert.Len(t, reg.List(), 2)

	res := reg.Dispatch(context.Background(), &petals.NotesCall{})
	assert.Equal(t, petals.StatusSuccess, res.Status)

	// Panic recovery is on.
	reg.Register(&MockTool{
		Desc: petals.Descriptor{ID: petals.ToolReminders},
		ExecuteFn: func(ctx context.Context, call petals.TypedCall) (petals.Result, error) {
			panic("boom")
		},
	})
	res = reg.Dispatch(context.Background(), &petals.RemindersCall{})
	assert.Equal(t, petals.StatusFailure, res.Status)
	assert.True(t, petals.IsExecutionError(res.Err))
}

// Package testutil provides test helpers for petals (e.g. MockTool).
package testutil

import (
	"context"
	"encoding/json"

	"github.com/aadishiv23/petals"
)

// MockTool is a configurable Tool implementation for tests.
type MockTool struct {
	Desc      petals.Descriptor
	ExecuteFn func(ctx context.Context, call petals.TypedCall) (petals.Result, error)
}

// Descriptor returns the configured descriptor.
func (m *MockTool) Descriptor() petals.Descriptor {
	return m.Desc
}

// Execute runs ExecuteFn if set, otherwise returns a success result with a
// fixed payload.
func (m *MockTool) Execute(ctx context.Context, call petals.TypedCall) (petals.Result, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, call)
	}
	return petals.Result{Status: petals.StatusSuccess, Payload: json.RawMessage(`{"ok":true}`)}, nil
}

// Ensure MockTool implements Tool.
var _ petals.Tool = (*MockTool)(nil)

package testutil

import (
	"github.com/aadishiv23/petals"
)

// NewTestRegistry returns a Registry with panic recovery enabled and the
// given tools registered, suitable for tests.
func NewTestRegistry(tools ...petals.Tool) *petals.Registry {
	reg := petals.NewRegistry(
		petals.WithRecoverPanics(true),
	)
	for _, t := range tools {
		reg.Register(t)
	}
	return reg
}

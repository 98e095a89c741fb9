package testutil

import (
	"github.com/skosovsky/toolwire"
)

// NewTestRegistry returns a Registry with panic recovery enabled and defs registered.
// It panics on an invalid definition, which is a bug in the test itself.
func NewTestRegistry(defs []toolwire.ToolDefinition, opts ...toolwire.DecoderOption) *toolwire.Registry {
	opts = append([]toolwire.DecoderOption{toolwire.WithRecoverPanics(true)}, opts...)
	reg := toolwire.NewRegistry(opts...)
	if err := reg.Register(defs...); err != nil {
		panic(err)
	}
	return reg
}
